package models

import (
	"github.com/shopspring/decimal"

	"cemetery_api/internal/apperrors"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentVoided  PaymentStatus = "voided"
)

// MinPaymentAmount is the smallest positive numeric(10,2) amount.
var MinPaymentAmount = decimal.New(1, -2)

type Payment struct {
	ID            uint            `gorm:"primaryKey"`
	ReservationID uint            `gorm:"not null;index"`
	Reservation   Reservation     `gorm:"foreignKey:ReservationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	PaymentDate   Date            `gorm:"not null"`
	Method        PaymentMethod   `gorm:"size:20;not null"`
	Status        PaymentStatus   `gorm:"size:20;not null;default:pending"`
}

// Validate rejects non-positive amounts.
func (p *Payment) Validate() error {
	v := &apperrors.ValidationError{}
	checkMoney(v, "amount", p.Amount, MinPaymentAmount)
	return v.OrNil()
}
