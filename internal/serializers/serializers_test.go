package serializers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cemetery_api/internal/apperrors"
	"cemetery_api/internal/models"
)

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestDecodeRejectsUnknownAndIgnoresReadOnly(t *testing.T) {
	body := `{"id": 99, "registeredAt": "2001-01-01", "name": "Juan", "surname": "Pérez",
		"email": "juan@example.com", "nickname": "JP"}`

	_, err := Users.Create([]byte(body))
	fields := fieldErrors(t, err)
	assert.Equal(t, map[string][]string{"nickname": {"Unknown field."}}, fields)

	u, err := Users.Create([]byte(`{"id": 99, "registeredAt": "2001-01-01", "name": "Juan", "surname": "Pérez", "email": "juan@example.com"}`))
	require.NoError(t, err)
	assert.Zero(t, u.ID)
	assert.True(t, u.RegisteredAt.IsZero())
	assert.Equal(t, models.RoleCustomer, u.Role)
}

func TestDecodeRequiredAndFormatMessages(t *testing.T) {
	_, err := Users.Create([]byte(`{"email": "not-an-email", "role": "owner"}`))
	fields := fieldErrors(t, err)

	assert.Equal(t, []string{"This field is required."}, fields["name"])
	assert.Equal(t, []string{"This field is required."}, fields["surname"])
	assert.Equal(t, []string{"Enter a valid email address."}, fields["email"])
	assert.Equal(t, []string{`"owner" is not a valid choice.`}, fields["role"])
}

func TestDecodeTypeErrorsPerField(t *testing.T) {
	_, err := Reservations.Create([]byte(`{"userId": "one", "plotId": 2, "reservationDate": "15/10/2026"}`))
	fields := fieldErrors(t, err)

	assert.Equal(t, []string{"A valid integer is required."}, fields["userId"])
	assert.Equal(t, []string{"Date has wrong format. Use one of these formats instead: YYYY-MM-DD."}, fields["reservationDate"])
	assert.NotContains(t, fields, "plotId")

	_, err = Plots.Create([]byte(`{"location": "B1", "size": "1x2", "price": "abc"}`))
	assert.Equal(t, []string{"A valid number is required."}, fieldErrors(t, err)["price"])
}

func TestDecodeNullOnRequiredValue(t *testing.T) {
	_, err := Plots.Create([]byte(`{"location": null, "size": "1x2", "price": "10"}`))
	assert.Equal(t, []string{"This field may not be null."}, fieldErrors(t, err)["location"])
}

func TestDecodeNonObjectBody(t *testing.T) {
	_, err := Plots.Create([]byte(`[1, 2]`))
	fields := fieldErrors(t, err)
	assert.Equal(t, []string{"Invalid data. Expected a dictionary, but got list."}, fields[apperrors.NonFieldErrors])
}

func TestPlotCreateDefaultsAndMoney(t *testing.T) {
	p, err := Plots.Create([]byte(`{"location": "B1", "size": "1x2", "price": "500"}`))
	require.NoError(t, err)
	assert.Equal(t, models.PlotAvailable, p.Status)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(500)))
	assert.Nil(t, p.Geometry)

	p.ID = 3
	out, err := json.Marshal(ReadPlot(p))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"location":"B1","size":"1x2","status":"available","price":"500.00","geometry":null}`, string(out))
}

func TestPlotGeometryRoundTrip(t *testing.T) {
	p, err := Plots.Create([]byte(`{"location": "B1", "size": "1x2", "price": 12.5,
		"geometry": {"type": "Point", "coordinates": [-58.38, -34.6]}}`))
	require.NoError(t, err)
	require.NotEmpty(t, p.Geometry)

	read := ReadPlot(p)
	assert.JSONEq(t, `{"type":"Point","coordinates":[-58.38,-34.6]}`, string(read.Geometry))
	assert.Equal(t, "12.50", read.Price)

	_, err = Plots.Create([]byte(`{"location": "B1", "size": "1x2", "price": 1, "geometry": {"type": "Nope"}}`))
	assert.Contains(t, fieldErrors(t, err), "geometry")

	_, err = Plots.Create([]byte(`{"location": "B1", "size": "1x2", "price": 1,
		"geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}}`))
	assert.Equal(t, []string{"Unsupported geometry type."}, fieldErrors(t, err)["geometry"])
}

func TestPatchKeepsOmittedFields(t *testing.T) {
	phone := "555-0100"
	u := &models.User{ID: 4, Name: "Ana", Surname: "López", Email: "ana@example.com", Phone: &phone, Role: models.RoleAdmin}

	require.NoError(t, Users.Patch([]byte(`{"surname": "Gómez"}`), u))
	assert.Equal(t, "Gómez", u.Surname)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, models.RoleAdmin, u.Role)
	require.NotNil(t, u.Phone)
	assert.Equal(t, phone, *u.Phone)

	require.NoError(t, Users.Patch([]byte(`{"phone": null}`), u))
	assert.Nil(t, u.Phone)
}

func TestReplaceRequiresFullBody(t *testing.T) {
	r := &models.Reservation{ID: 1, UserID: 1, PlotID: 1, ReservationDate: models.MustDate("2026-01-02"), Status: models.ReservationConfirmed}

	err := Reservations.Replace([]byte(`{"status": "cancelled"}`), r)
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "userId")
	assert.Contains(t, fields, "plotId")
	assert.Contains(t, fields, "reservationDate")
	assert.Equal(t, models.ReservationConfirmed, r.Status)
}

func TestReservationReadEmbedsUserAndPlot(t *testing.T) {
	r := &models.Reservation{
		ID:              7,
		UserID:          1,
		User:            models.User{ID: 1, Name: "Juan", Surname: "Pérez", Email: "juan@example.com", Role: models.RoleCustomer, RegisteredAt: models.MustDate("2026-10-15")},
		PlotID:          2,
		Plot:            models.Plot{ID: 2, Location: "B1", Size: "1x2", Status: models.PlotReserved, Price: decimal.RequireFromString("500")},
		ReservationDate: models.MustDate("2026-10-15"),
		Status:          models.ReservationPending,
	}

	out, err := json.Marshal(ReadReservation(r))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 7,
		"user": {"id": 1, "name": "Juan", "surname": "Pérez", "email": "juan@example.com", "phone": null, "role": "customer", "registeredAt": "2026-10-15"},
		"plot": {"id": 2, "location": "B1", "size": "1x2", "status": "reserved", "price": "500.00", "geometry": null},
		"userName": "Juan",
		"userSurname": "Pérez",
		"plotLocation": "B1",
		"reservationDate": "2026-10-15",
		"status": "pending"
	}`, string(out))
}

func TestPaymentReadNestsReservation(t *testing.T) {
	p := &models.Payment{
		ID:            3,
		ReservationID: 7,
		Reservation:   models.Reservation{ID: 7, Plot: models.Plot{Location: "C4"}},
		Amount:        decimal.RequireFromString("0.01"),
		PaymentDate:   models.MustDate("2026-10-01"),
		Method:        models.PaymentCard,
		Status:        models.PaymentPaid,
	}
	read := ReadPayment(p)
	assert.Equal(t, "0.01", read.Amount)
	assert.Equal(t, uint(7), read.ReservationID)
	assert.Equal(t, "C4", read.Reservation.PlotLocation)
}

func TestPaymentWriteMethodRequired(t *testing.T) {
	_, err := Payments.Create([]byte(`{"reservationId": 1, "amount": "10.00", "paymentDate": "2026-10-01"}`))
	assert.Equal(t, []string{"This field is required."}, fieldErrors(t, err)["method"])

	p, err := Payments.Create([]byte(`{"reservationId": 1, "amount": "10.00", "paymentDate": "2026-10-01", "method": "cash"}`))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, p.Status)
}

func TestDeceasedBirthAfterDeath(t *testing.T) {
	_, err := Deceased.Create([]byte(`{"name": "Ana", "surname": "López", "birthDate": "2020-01-01", "deathDate": "2019-01-01", "plotId": 1}`))
	assert.Contains(t, fieldErrors(t, err), "birthDate")

	d, err := Deceased.Create([]byte(`{"name": "Ana", "surname": "López", "deathDate": "2019-01-01", "plotId": 1}`))
	require.NoError(t, err)
	assert.Nil(t, d.BirthDate)
	assert.Equal(t, "2019-01-01", d.DeathDate.String())
}

func TestAccountPasswordHandling(t *testing.T) {
	_, err := Accounts.Create([]byte(`{"username": "clerk"}`))
	assert.Equal(t, []string{"This field is required."}, fieldErrors(t, err)["password"])

	a, err := Accounts.Create([]byte(`{"username": "clerk", "password": "s3cret-pass"}`))
	require.NoError(t, err)
	assert.True(t, a.IsActive)
	assert.False(t, a.IsStaff)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(a.Password), []byte("s3cret-pass")))

	hash := a.Password
	require.NoError(t, Accounts.Patch([]byte(`{"isActive": false}`), a))
	assert.False(t, a.IsActive)
	assert.Equal(t, hash, a.Password)

	out, err := json.Marshal(ReadAccount(a))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "password")
}

func TestAccountPasswordLimitCountsBytes(t *testing.T) {
	// 40 characters, 80 bytes.
	long := strings.Repeat("é", 40)
	body, err := json.Marshal(map[string]string{"username": "clerk", "password": long})
	require.NoError(t, err)

	_, err = Accounts.Create(body)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.Status(err))
	assert.Equal(t, []string{"Ensure this field has no more than 72 bytes."}, fieldErrors(t, err)["password"])

	body, err = json.Marshal(map[string]string{"username": "clerk", "password": strings.Repeat("é", 36)})
	require.NoError(t, err)
	_, err = Accounts.Create(body)
	assert.NoError(t, err)
}
