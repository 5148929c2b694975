package serializers

import "cemetery_api/internal/models"

// ReservationRead embeds the full user and plot, plus the few fields list
// views show without unpacking them.
type ReservationRead struct {
	ID              uint                     `json:"id"`
	User            UserRead                 `json:"user"`
	Plot            PlotRead                 `json:"plot"`
	UserName        string                   `json:"userName"`
	UserSurname     string                   `json:"userSurname"`
	PlotLocation    string                   `json:"plotLocation"`
	ReservationDate models.Date              `json:"reservationDate"`
	Status          models.ReservationStatus `json:"status"`
}

type ReservationWrite struct {
	UserID          uint                     `json:"userId" binding:"required"`
	PlotID          uint                     `json:"plotId" binding:"required"`
	ReservationDate *models.Date             `json:"reservationDate" binding:"required"`
	Status          models.ReservationStatus `json:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
}

func ReadReservation(r *models.Reservation) ReservationRead {
	return ReservationRead{
		ID:              r.ID,
		User:            ReadUser(&r.User),
		Plot:            ReadPlot(&r.Plot),
		UserName:        r.User.Name,
		UserSurname:     r.User.Surname,
		PlotLocation:    r.Plot.Location,
		ReservationDate: r.ReservationDate,
		Status:          r.Status,
	}
}

var Reservations = Mapper[models.Reservation, ReservationWrite, ReservationRead]{
	ReadOnly: []string{"id", "user", "plot", "userName", "userSurname", "plotLocation"},
	From: func(r *models.Reservation) ReservationWrite {
		date := r.ReservationDate
		return ReservationWrite{UserID: r.UserID, PlotID: r.PlotID, ReservationDate: &date, Status: r.Status}
	},
	Apply: func(w *ReservationWrite, r *models.Reservation) error {
		r.UserID, r.PlotID, r.ReservationDate = w.UserID, w.PlotID, *w.ReservationDate
		r.Status = w.Status
		if r.Status == "" {
			r.Status = models.ReservationPending
		}
		return nil
	},
	Read: ReadReservation,
}
