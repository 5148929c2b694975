package serializers

import (
	"bytes"
	"encoding/binary"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"

	"cemetery_api/internal/apperrors"
)

// geometryToWKB converts a GeoJSON geometry into WKB for storage. An absent
// or null geometry yields nil.
func geometryToWKB(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var g geom.T
	if err := geojson.Unmarshal(raw, &g); err != nil {
		return nil, apperrors.NewValidation("geometry", "Invalid GeoJSON geometry.")
	}
	switch g.(type) {
	case *geom.Point, *geom.Polygon, *geom.MultiPolygon:
	default:
		return nil, apperrors.NewValidation("geometry", "Unsupported geometry type.")
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// wkbToGeometry converts stored WKB back into GeoJSON. Unreadable bytes are
// logged and rendered as null.
func wkbToGeometry(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	g, err := wkb.Unmarshal(b)
	if err != nil {
		logrus.WithError(err).Warn("plot geometry: stored WKB is unreadable")
		return nil
	}
	out, err := geojson.Marshal(g)
	if err != nil {
		logrus.WithError(err).Warn("plot geometry: cannot encode GeoJSON")
		return nil
	}
	return out
}
