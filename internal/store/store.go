// Package store is the entity repository: typed CRUD over the five record
// tables plus accounts and tokens, backed by GORM. Every mutation runs in a
// single transaction so cascades never persist partially.
package store

import (
	"context"
	"strings"
	"unicode"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cemetery_api/internal/apperrors"
)

// Query carries list filters taken from the query string.
type Query struct {
	Search   string
	Ordering string
}

// Repository is the CRUD surface every entity store offers.
type Repository[M any] interface {
	Create(ctx context.Context, m *M) error
	Get(ctx context.Context, id uint) (*M, error)
	List(ctx context.Context, q Query) ([]M, error)
	Update(ctx context.Context, m *M) error
	Delete(ctx context.Context, id uint) error
}

// schema declares how one entity is read, searched, ordered, checked and
// deleted.
type schema[M any] struct {
	table     string
	joins     []string
	preloads  []string
	search    []string          // SQL text expressions
	ordering  map[string]string // wire name -> column
	defaults  []string          // ORDER BY terms when no valid ordering is given
	immutable []string          // columns Update never writes
	check     func(tx *gorm.DB, m *M) error
	cascade   func(tx *gorm.DB, id uint) error
}

// GormRepository implements Repository for one entity.
type GormRepository[M any] struct {
	DB     *gorm.DB
	schema schema[M]
}

func (r *GormRepository[M]) query(ctx context.Context) *gorm.DB {
	tx := r.DB.WithContext(ctx)
	for _, j := range r.schema.joins {
		tx = tx.Joins(j)
	}
	for _, p := range r.schema.preloads {
		tx = tx.Preload(p)
	}
	return tx
}

// Get loads one row with its related rows, or apperrors.ErrNotFound.
func (r *GormRepository[M]) Get(ctx context.Context, id uint) (*M, error) {
	var m M
	if err := r.query(ctx).Where(r.schema.table+".id = ?", id).Take(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// List returns every row matching all search terms, in the requested order.
func (r *GormRepository[M]) List(ctx context.Context, q Query) ([]M, error) {
	tx := r.query(ctx)
	if len(r.schema.search) > 0 {
		clauseSQL := r.searchClause()
		for _, term := range searchTerms(q.Search) {
			pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
			args := make([]any, len(r.schema.search))
			for i := range args {
				args[i] = pattern
			}
			tx = tx.Where(clauseSQL, args...)
		}
	}
	for _, o := range r.orderBy(q.Ordering) {
		tx = tx.Order(o)
	}
	out := []M{}
	if err := tx.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Create validates m, runs the entity checks and inserts it in one
// transaction.
func (r *GormRepository[M]) Create(ctx context.Context, m *M) error {
	if err := validate(m); err != nil {
		return err
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.schema.check != nil {
			if err := r.schema.check(tx, m); err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Create(m).Error
	})
	return translate(err)
}

// Update writes every mutable column of m. Zero affected rows means the id
// is gone.
func (r *GormRepository[M]) Update(ctx context.Context, m *M) error {
	if err := validate(m); err != nil {
		return err
	}
	omit := append([]string{"id", clause.Associations}, r.schema.immutable...)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.schema.check != nil {
			if err := r.schema.check(tx, m); err != nil {
				return err
			}
		}
		res := tx.Model(m).Select("*").Omit(omit...).Updates(m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
	return translate(err)
}

// Delete removes the row and its dependents together.
func (r *GormRepository[M]) Delete(ctx context.Context, id uint) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.schema.cascade != nil {
			if err := r.schema.cascade(tx, id); err != nil {
				return err
			}
		}
		res := tx.Where(r.schema.table+".id = ?", id).Delete(new(M))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
	return translate(err)
}

func (r *GormRepository[M]) searchClause() string {
	parts := make([]string, len(r.schema.search))
	for i, expr := range r.schema.search {
		parts[i] = "LOWER(" + expr + ") LIKE ?"
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// orderBy resolves a comma separated ordering parameter. Unknown names are
// dropped; the primary key always breaks ties.
func (r *GormRepository[M]) orderBy(param string) []string {
	var out []string
	for _, f := range strings.Split(param, ",") {
		f = strings.TrimSpace(f)
		desc := strings.HasPrefix(f, "-")
		col, ok := r.schema.ordering[strings.TrimPrefix(f, "-")]
		if !ok {
			continue
		}
		if desc {
			col += " DESC"
		}
		out = append(out, col)
	}
	if len(out) == 0 {
		out = append(out, r.schema.defaults...)
	}
	return append(out, r.schema.table+".id")
}

func validate(m any) error {
	if v, ok := m.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

func searchTerms(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
