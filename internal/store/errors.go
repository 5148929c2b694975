package store

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"cemetery_api/internal/apperrors"
)

// uniqueFields maps unique index names onto the wire field they guard.
var uniqueFields = map[string]string{
	"idx_users_email":       "email",
	"idx_accounts_username": "username",
}

// translate folds driver and ORM errors into the apperrors taxonomy.
// Errors already in the taxonomy pass through untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	if apperrors.IsValidation(err) || errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			field, ok := uniqueFields[pqErr.Constraint]
			if !ok {
				field = apperrors.NonFieldErrors
			}
			return apperrors.NewValidation(field, "A record with this value already exists.")
		case "23503": // foreign_key_violation
			return apperrors.NewValidation(apperrors.NonFieldErrors, "Referenced record does not exist.")
		}
	}
	return fmt.Errorf("store: %w", err)
}
