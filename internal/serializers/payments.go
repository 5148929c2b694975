package serializers

import (
	"github.com/shopspring/decimal"

	"cemetery_api/internal/models"
)

type PaymentRead struct {
	ID            uint                 `json:"id"`
	Reservation   ReservationRead      `json:"reservation"`
	ReservationID uint                 `json:"reservationId"`
	Amount        string               `json:"amount"`
	PaymentDate   models.Date          `json:"paymentDate"`
	Method        models.PaymentMethod `json:"method"`
	Status        models.PaymentStatus `json:"status"`
}

type PaymentWrite struct {
	ReservationID uint                 `json:"reservationId" binding:"required"`
	Amount        *decimal.Decimal     `json:"amount" binding:"required"`
	PaymentDate   *models.Date         `json:"paymentDate" binding:"required"`
	Method        models.PaymentMethod `json:"method" binding:"required,oneof=cash card transfer"`
	Status        models.PaymentStatus `json:"status" binding:"omitempty,oneof=pending paid voided"`
}

func ReadPayment(p *models.Payment) PaymentRead {
	return PaymentRead{
		ID:            p.ID,
		Reservation:   ReadReservation(&p.Reservation),
		ReservationID: p.ReservationID,
		Amount:        models.FormatMoney(p.Amount),
		PaymentDate:   p.PaymentDate,
		Method:        p.Method,
		Status:        p.Status,
	}
}

var Payments = Mapper[models.Payment, PaymentWrite, PaymentRead]{
	ReadOnly: []string{"id", "reservation"},
	From: func(p *models.Payment) PaymentWrite {
		amount, date := p.Amount, p.PaymentDate
		return PaymentWrite{
			ReservationID: p.ReservationID,
			Amount:        &amount,
			PaymentDate:   &date,
			Method:        p.Method,
			Status:        p.Status,
		}
	},
	Apply: func(w *PaymentWrite, p *models.Payment) error {
		p.ReservationID, p.Amount, p.PaymentDate, p.Method = w.ReservationID, *w.Amount, *w.PaymentDate, w.Method
		p.Status = w.Status
		if p.Status == "" {
			p.Status = models.PaymentPending
		}
		return nil
	},
	Read: ReadPayment,
}
