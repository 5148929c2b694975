package models

// Deceased is a burial record. Deleting the plot deletes the record.
type Deceased struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:100;not null"`
	Surname   string  `gorm:"size:100;not null"`
	BirthDate *Date   `gorm:"type:date"`
	DeathDate Date    `gorm:"not null"`
	Notes     *string `gorm:"type:text"`
	PlotID    uint    `gorm:"not null;index"`
	Plot      Plot    `gorm:"foreignKey:PlotID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Deceased) TableName() string { return "deceased" }
