package serializers

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"cemetery_api/internal/models"
)

type PlotRead struct {
	ID       uint              `json:"id"`
	Location string            `json:"location"`
	Size     string            `json:"size"`
	Status   models.PlotStatus `json:"status"`
	Price    string            `json:"price"`
	Geometry json.RawMessage   `json:"geometry"`
}

type PlotWrite struct {
	Location string            `json:"location" binding:"required,max=100"`
	Size     string            `json:"size" binding:"required,max=50"`
	Status   models.PlotStatus `json:"status" binding:"omitempty,oneof=available reserved occupied"`
	Price    *decimal.Decimal  `json:"price" binding:"required"`
	// Geometry is a GeoJSON Point, Polygon or MultiPolygon.
	Geometry json.RawMessage `json:"geometry"`
}

func ReadPlot(p *models.Plot) PlotRead {
	return PlotRead{
		ID:       p.ID,
		Location: p.Location,
		Size:     p.Size,
		Status:   p.Status,
		Price:    models.FormatMoney(p.Price),
		Geometry: wkbToGeometry(p.Geometry),
	}
}

var Plots = Mapper[models.Plot, PlotWrite, PlotRead]{
	ReadOnly: []string{"id"},
	From: func(p *models.Plot) PlotWrite {
		price := p.Price
		return PlotWrite{
			Location: p.Location,
			Size:     p.Size,
			Status:   p.Status,
			Price:    &price,
			Geometry: wkbToGeometry(p.Geometry),
		}
	},
	Apply: func(w *PlotWrite, p *models.Plot) error {
		shape, err := geometryToWKB(w.Geometry)
		if err != nil {
			return err
		}
		p.Location, p.Size, p.Price, p.Geometry = w.Location, w.Size, *w.Price, shape
		p.Status = w.Status
		if p.Status == "" {
			p.Status = models.PlotAvailable
		}
		return nil
	},
	Read: ReadPlot,
}
