package models

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Reservation binds a User to a Plot. Both parents cascade on delete.
type Reservation struct {
	ID              uint              `gorm:"primaryKey"`
	UserID          uint              `gorm:"not null;index"`
	User            User              `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PlotID          uint              `gorm:"not null;index"`
	Plot            Plot              `gorm:"foreignKey:PlotID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ReservationDate Date              `gorm:"not null"`
	Status          ReservationStatus `gorm:"size:20;not null;default:pending"`
}
