package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cemetery_api/internal/apperrors"
	"cemetery_api/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestDeletePlotCascadesInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "payments" WHERE reservation_id IN \(SELECT`).WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "reservations" WHERE plot_id = `).WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "deceased" WHERE plot_id = `).WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "plots" WHERE plots.id = `).WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewPlots(db).Delete(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingPlotRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "payments"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "reservations"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "deceased"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "plots"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := NewPlots(db).Delete(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserRemovesReservationsAndPayments(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "payments" WHERE reservation_id IN \(SELECT`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "reservations" WHERE user_id = `).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "users"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewUsers(db).Delete(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReservationFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "payments" WHERE reservation_id = `).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "reservations"`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := NewReservations(db).Delete(context.Background(), 2)
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.Status(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = `).
		WithArgs("juan@example.com", 0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	u := &models.User{Name: "Juan", Surname: "Pérez", Email: "juan@example.com"}
	err := NewUsers(db).Create(context.Background(), u)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Zero(t, u.ID)
	// No INSERT was issued.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentRejectsNonPositiveAmount(t *testing.T) {
	db, mock := newMockDB(t)

	p := &models.Payment{
		ReservationID: 1,
		Amount:        decimal.Zero,
		PaymentDate:   models.Today(),
		Method:        models.PaymentCash,
	}
	err := NewPayments(db).Create(context.Background(), p)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "amount")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationUnknownPlot(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "plots"`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	r := &models.Reservation{UserID: 1, PlotID: 42, ReservationDate: models.Today()}
	err := NewReservations(db).Create(context.Background(), r)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{`Invalid pk "42" - object does not exist.`}, verr.Fields["plotId"])
	assert.NotContains(t, verr.Fields, "userId")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissingIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "plots" WHERE plots.id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewPlots(db).Get(context.Background(), 7)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPlotsSearchAndOrdering(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "location", "size", "status", "price"}).
		AddRow(2, "Sector B", "2x2", "available", "900.00").
		AddRow(1, "sector a", "1x2", "reserved", "500.00")
	mock.ExpectQuery(`SELECT \* FROM "plots" WHERE \(LOWER\(plots\.location\) LIKE .* OR LOWER\(plots\.status\) LIKE .* OR LOWER\(plots\.size\) LIKE .*\) ORDER BY plots\.price DESC,plots\.id`).
		WithArgs("%sector%", "%sector%", "%sector%").
		WillReturnRows(rows)

	plots, err := NewPlots(db).List(context.Background(), Query{Search: "Sector", Ordering: "-price"})
	require.NoError(t, err)
	require.Len(t, plots, 2)
	assert.Equal(t, "900.00", models.FormatMoney(plots[0].Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDeceasedOrderedByDeathDateDescending(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "name", "surname", "death_date", "plot_id"}).
		AddRow(3, "Pedro", "Ramírez", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 1).
		AddRow(1, "Ana", "López", time.Date(2019, 7, 9, 0, 0, 0, 0, time.UTC), 1)
	mock.ExpectQuery(`FROM "deceased" LEFT JOIN "plots" "Plot" .* ORDER BY deceased\.death_date DESC,deceased\.id`).
		WillReturnRows(rows)

	out, err := NewDeceased(db).List(context.Background(), Query{Ordering: "-fechaFallecimiento"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "2024-03-01", out[0].DeathDate.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenGetOrCreateReusesExisting(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tokens" WHERE account_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"key", "account_id", "created_at"}).AddRow("existing-key", 5, time.Now()))
	mock.ExpectCommit()

	issued := false
	tok, err := (&GormTokenStore{DB: db}).GetOrCreate(context.Background(), 5, func() (string, error) {
		issued = true
		return "fresh-key", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "existing-key", tok.Key)
	assert.False(t, issued)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderByResolution(t *testing.T) {
	r := NewReservations(nil)

	assert.Equal(t, []string{"reservations.reservation_date DESC", "reservations.id"}, r.orderBy(""))
	assert.Equal(t, []string{"reservations.reservation_date DESC", "reservations.id"}, r.orderBy("bogus,-nope"))
	assert.Equal(t, []string{"reservations.status", "reservations.id DESC", "reservations.id"}, r.orderBy("estado, -id"))
}

func TestSearchHelpers(t *testing.T) {
	assert.Equal(t, []string{"Sector", "A"}, searchTerms("  Sector, A "))
	assert.Empty(t, searchTerms(""))
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}

func TestUpdateUserKeepsRegistrationDate(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = `).
		WithArgs("juan@example.com", 7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// Five assignments and the key: registered_at is never written.
	mock.ExpectExec(`^UPDATE "users" SET "name"=\$1,"surname"=\$2,"email"=\$3,"phone"=\$4,"role"=\$5 WHERE `).
		WithArgs("Juan", "Pérez", "juan@example.com", "555-0101", "admin", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	phone := "555-0101"
	u := &models.User{
		ID: 7, Name: "Juan", Surname: "Pérez", Email: "juan@example.com", Phone: &phone,
		Role: models.RoleAdmin, RegisteredAt: models.MustDate("2001-01-01"),
	}
	require.NoError(t, NewUsers(db).Update(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingUserIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = `).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`^UPDATE "users" SET `).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	u := &models.User{ID: 99, Name: "Ana", Surname: "Gómez", Email: "ana@example.com", Role: models.RoleCustomer}
	err := NewUsers(db).Update(context.Background(), u)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 404, apperrors.Status(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReservationUnknownPlotWritesNothing(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE id = `).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "plots" WHERE id = `).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	r := &models.Reservation{
		ID: 5, UserID: 1, PlotID: 42,
		ReservationDate: models.Today(), Status: models.ReservationConfirmed,
	}
	err := NewReservations(db).Update(context.Background(), r)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{`Invalid pk "42" - object does not exist.`}, verr.Fields["plotId"])
	assert.Equal(t, 400, apperrors.Status(err))
	// No UPDATE was issued.
	assert.NoError(t, mock.ExpectationsWereMet())
}
