package models

import (
	"github.com/shopspring/decimal"

	"cemetery_api/internal/apperrors"
)

type PlotStatus string

const (
	PlotAvailable PlotStatus = "available"
	PlotReserved  PlotStatus = "reserved"
	PlotOccupied  PlotStatus = "occupied"
)

// Plot is a reservable burial location.
type Plot struct {
	ID       uint            `gorm:"primaryKey"`
	Location string          `gorm:"size:100;not null"`
	Size     string          `gorm:"size:50;not null"`
	Status   PlotStatus      `gorm:"size:20;not null;default:available"`
	Price    decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	// Geometry stored as WKB; the API speaks GeoJSON.
	Geometry []byte `gorm:"type:bytea"`
}

// Validate checks the price bounds.
func (p *Plot) Validate() error {
	v := &apperrors.ValidationError{}
	checkMoney(v, "price", p.Price, decimal.Zero)
	return v.OrNil()
}
