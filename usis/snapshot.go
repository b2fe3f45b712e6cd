package usis

import "errors"

// AttributeReading is one live (value, state) pair read from the device.
type AttributeReading struct {
	Name  string
	Mode  AccessMode
	Value string
	State string
}

// PropertySnapshot is the full live read-out of one property.
type PropertySnapshot struct {
	Name       string
	Type       PropertyType
	Attributes []AttributeReading
}

// Snapshot is a full live read-out of an instrument: one GET per attribute
// of every property in the capability model, in model order.
type Snapshot struct {
	Properties []PropertySnapshot
}

// Snapshot reads the live value of every attribute in model. When model is
// nil, the session's own model from the last Introspect is used.
//
// Values are fetched fresh from the device; nothing is cached. The read-out
// aborts on the first error, fatal or not, since a partial snapshot is of no
// diagnostic use.
func (s *Session) Snapshot(model *Model) (*Snapshot, error) {
	if model == nil {
		model = s.model
	}
	if model == nil {
		return nil, errors.New("usis: snapshot requires a capability model, run Introspect first")
	}

	snap := &Snapshot{
		Properties: make([]PropertySnapshot, 0, model.Len()),
	}

	for _, prop := range model.Properties() {
		ps := PropertySnapshot{
			Name:       prop.Name,
			Type:       prop.Type,
			Attributes: make([]AttributeReading, 0, len(prop.Attributes)),
		}

		for _, attr := range prop.Attributes {
			value, state, err := s.Get(prop.Name, attr.Name)
			if err != nil {
				return nil, err
			}

			ps.Attributes = append(ps.Attributes, AttributeReading{
				Name:  attr.Name,
				Mode:  attr.Mode,
				Value: value,
				State: state,
			})
		}

		snap.Properties = append(snap.Properties, ps)
	}

	return snap, nil
}
