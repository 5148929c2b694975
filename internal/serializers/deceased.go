package serializers

import (
	"cemetery_api/internal/apperrors"
	"cemetery_api/internal/models"
)

type DeceasedRead struct {
	ID           uint         `json:"id"`
	Name         string       `json:"name"`
	Surname      string       `json:"surname"`
	BirthDate    *models.Date `json:"birthDate"`
	DeathDate    models.Date  `json:"deathDate"`
	Notes        *string      `json:"notes"`
	Plot         PlotRead     `json:"plot"`
	PlotLocation string       `json:"plotLocation"`
}

type DeceasedWrite struct {
	Name      string       `json:"name" binding:"required,max=100"`
	Surname   string       `json:"surname" binding:"required,max=100"`
	BirthDate *models.Date `json:"birthDate"`
	DeathDate *models.Date `json:"deathDate" binding:"required"`
	Notes     *string      `json:"notes"`
	PlotID    uint         `json:"plotId" binding:"required"`
}

func ReadDeceased(d *models.Deceased) DeceasedRead {
	return DeceasedRead{
		ID:           d.ID,
		Name:         d.Name,
		Surname:      d.Surname,
		BirthDate:    d.BirthDate,
		DeathDate:    d.DeathDate,
		Notes:        d.Notes,
		Plot:         ReadPlot(&d.Plot),
		PlotLocation: d.Plot.Location,
	}
}

var Deceased = Mapper[models.Deceased, DeceasedWrite, DeceasedRead]{
	ReadOnly: []string{"id", "plot", "plotLocation"},
	From: func(d *models.Deceased) DeceasedWrite {
		death := d.DeathDate
		return DeceasedWrite{
			Name:      d.Name,
			Surname:   d.Surname,
			BirthDate: d.BirthDate,
			DeathDate: &death,
			Notes:     d.Notes,
			PlotID:    d.PlotID,
		}
	},
	Apply: func(w *DeceasedWrite, d *models.Deceased) error {
		if w.BirthDate != nil && w.BirthDate.After(w.DeathDate.Time) {
			return apperrors.NewValidation("birthDate", "Birth date must not be after the death date.")
		}
		d.Name, d.Surname, d.BirthDate, d.DeathDate = w.Name, w.Surname, w.BirthDate, *w.DeathDate
		d.Notes, d.PlotID = w.Notes, w.PlotID
		return nil
	},
	Read: ReadDeceased,
}
