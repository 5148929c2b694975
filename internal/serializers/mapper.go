package serializers

// Mapper pairs the read and write representations of one entity.
//
// M is the stored model, W the write struct and R the read struct.
type Mapper[M, W, R any] struct {
	// ReadOnly lists keys accepted in bodies but never applied.
	ReadOnly []string
	// From seeds a write struct from a stored entity for partial updates.
	From func(m *M) W
	// Apply copies a validated write struct onto m.
	Apply func(w *W, m *M) error
	// Read renders m.
	Read func(m *M) R
}

// Create decodes a full body into a new entity.
func (mp Mapper[M, W, R]) Create(body []byte) (*M, error) {
	var w W
	if err := Decode(body, &w, mp.ReadOnly...); err != nil {
		return nil, err
	}
	m := new(M)
	if err := mp.Apply(&w, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Replace decodes a full body onto m. Optional fields left out of the body
// take their zero or default value.
func (mp Mapper[M, W, R]) Replace(body []byte, m *M) error {
	var w W
	if err := Decode(body, &w, mp.ReadOnly...); err != nil {
		return err
	}
	return mp.Apply(&w, m)
}

// Patch decodes a partial body onto m, keeping every field the body omits.
func (mp Mapper[M, W, R]) Patch(body []byte, m *M) error {
	w := mp.From(m)
	if err := Decode(body, &w, mp.ReadOnly...); err != nil {
		return err
	}
	return mp.Apply(&w, m)
}

// ReadAll renders a collection.
func (mp Mapper[M, W, R]) ReadAll(ms []M) []R {
	out := make([]R, len(ms))
	for i := range ms {
		out[i] = mp.Read(&ms[i])
	}
	return out
}
