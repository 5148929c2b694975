package store

import (
	"fmt"

	"gorm.io/gorm"

	"cemetery_api/internal/apperrors"
	"cemetery_api/internal/models"
)

// Stores bundles the repositories handed to the HTTP layer.
type Stores struct {
	Users        Repository[models.User]
	Plots        Repository[models.Plot]
	Reservations Repository[models.Reservation]
	Payments     Repository[models.Payment]
	Deceased     Repository[models.Deceased]
	Accounts     AccountRepository
	Tokens       TokenStore
}

// New builds every repository on top of db.
func New(db *gorm.DB) Stores {
	return Stores{
		Users:        NewUsers(db),
		Plots:        NewPlots(db),
		Reservations: NewReservations(db),
		Payments:     NewPayments(db),
		Deceased:     NewDeceased(db),
		Accounts:     NewAccounts(db),
		Tokens:       &GormTokenStore{DB: db},
	}
}

// NewUsers stores customer records. Deleting a user removes its
// reservations and their payments.
func NewUsers(db *gorm.DB) *GormRepository[models.User] {
	return &GormRepository[models.User]{DB: db, schema: schema[models.User]{
		table:  "users",
		search: []string{"users.name", "users.surname", "users.email", "COALESCE(users.phone, '')", "users.role"},
		ordering: map[string]string{
			"id": "users.id", "idUsuario": "users.id", "id_usuario": "users.id",
			"name": "users.name", "nombre": "users.name",
			"surname": "users.surname", "apellido": "users.surname",
			"email":        "users.email",
			"registeredAt": "users.registered_at", "fechaRegistro": "users.registered_at", "fecha_registro": "users.registered_at",
		},
		defaults:  []string{"users.id"},
		immutable: []string{"registered_at"},
		check: func(tx *gorm.DB, u *models.User) error {
			var n int64
			if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", u.Email, u.ID).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return apperrors.NewValidation("email", "user with this email already exists.")
			}
			return nil
		},
		cascade: func(tx *gorm.DB, id uint) error {
			owned := tx.Model(&models.Reservation{}).Select("id").Where("user_id = ?", id)
			if err := tx.Where("reservation_id IN (?)", owned).Delete(&models.Payment{}).Error; err != nil {
				return err
			}
			return tx.Where("user_id = ?", id).Delete(&models.Reservation{}).Error
		},
	}}
}

// NewPlots stores plots. Deleting a plot removes its reservations, their
// payments and the deceased buried there.
func NewPlots(db *gorm.DB) *GormRepository[models.Plot] {
	return &GormRepository[models.Plot]{DB: db, schema: schema[models.Plot]{
		table:  "plots",
		search: []string{"plots.location", "plots.status", "plots.size"},
		ordering: map[string]string{
			"id": "plots.id", "idParcela": "plots.id", "id_parcela": "plots.id",
			"price": "plots.price", "precio": "plots.price",
			"location": "plots.location", "ubicacion": "plots.location",
			"status": "plots.status", "estado": "plots.status",
		},
		defaults: []string{"plots.id"},
		cascade: func(tx *gorm.DB, id uint) error {
			held := tx.Model(&models.Reservation{}).Select("id").Where("plot_id = ?", id)
			if err := tx.Where("reservation_id IN (?)", held).Delete(&models.Payment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("plot_id = ?", id).Delete(&models.Reservation{}).Error; err != nil {
				return err
			}
			return tx.Where("plot_id = ?", id).Delete(&models.Deceased{}).Error
		},
	}}
}

// NewReservations stores reservations with their user and plot joined in.
func NewReservations(db *gorm.DB) *GormRepository[models.Reservation] {
	return &GormRepository[models.Reservation]{DB: db, schema: schema[models.Reservation]{
		table:  "reservations",
		joins:  []string{"User", "Plot"},
		search: []string{`"User".name`, `"User".surname`, `"Plot".location`, "reservations.status"},
		ordering: map[string]string{
			"id": "reservations.id", "idReserva": "reservations.id", "id_reserva": "reservations.id",
			"reservationDate": "reservations.reservation_date", "fechaReserva": "reservations.reservation_date", "fecha_reserva": "reservations.reservation_date",
			"status": "reservations.status", "estado": "reservations.status",
		},
		defaults: []string{"reservations.reservation_date DESC"},
		check: func(tx *gorm.DB, r *models.Reservation) error {
			v := &apperrors.ValidationError{}
			if err := requireRef(tx, v, "userId", &models.User{}, r.UserID); err != nil {
				return err
			}
			if err := requireRef(tx, v, "plotId", &models.Plot{}, r.PlotID); err != nil {
				return err
			}
			return v.OrNil()
		},
		cascade: func(tx *gorm.DB, id uint) error {
			return tx.Where("reservation_id = ?", id).Delete(&models.Payment{}).Error
		},
	}}
}

// NewPayments stores payments with the reservation preloaded.
func NewPayments(db *gorm.DB) *GormRepository[models.Payment] {
	return &GormRepository[models.Payment]{DB: db, schema: schema[models.Payment]{
		table:    "payments",
		preloads: []string{"Reservation.User", "Reservation.Plot"},
		search:   []string{"payments.status", "payments.method", "CAST(payments.reservation_id AS TEXT)"},
		ordering: map[string]string{
			"id": "payments.id", "idPago": "payments.id", "id_pago": "payments.id",
			"paymentDate": "payments.payment_date", "fechaPago": "payments.payment_date", "fecha_pago": "payments.payment_date",
			"amount": "payments.amount", "monto": "payments.amount",
		},
		defaults: []string{"payments.payment_date DESC"},
		check: func(tx *gorm.DB, p *models.Payment) error {
			v := &apperrors.ValidationError{}
			if err := requireRef(tx, v, "reservationId", &models.Reservation{}, p.ReservationID); err != nil {
				return err
			}
			return v.OrNil()
		},
	}}
}

// NewDeceased stores deceased records, ordered by surname by default.
func NewDeceased(db *gorm.DB) *GormRepository[models.Deceased] {
	return &GormRepository[models.Deceased]{DB: db, schema: schema[models.Deceased]{
		table:  "deceased",
		joins:  []string{"Plot"},
		search: []string{"deceased.name", "deceased.surname", `"Plot".location`},
		ordering: map[string]string{
			"id": "deceased.id", "idDifunto": "deceased.id", "id_difunto": "deceased.id",
			"deathDate": "deceased.death_date", "fechaFallecimiento": "deceased.death_date", "fecha_fallecimiento": "deceased.death_date",
			"surname": "deceased.surname", "apellido": "deceased.surname",
			"name": "deceased.name", "nombre": "deceased.name",
		},
		defaults: []string{"deceased.surname", "deceased.name"},
		check: func(tx *gorm.DB, d *models.Deceased) error {
			v := &apperrors.ValidationError{}
			if err := requireRef(tx, v, "plotId", &models.Plot{}, d.PlotID); err != nil {
				return err
			}
			return v.OrNil()
		},
	}}
}

// requireRef records a validation message on field when no row of model
// has the given id.
func requireRef(tx *gorm.DB, v *apperrors.ValidationError, field string, model any, id uint) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		v.Add(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
	}
	return nil
}
