package usis

// Introspect discovers the device's full capability schema with no prior
// knowledge of the instrument: it queries the property count, then walks
// every property's name, type, state and attribute list, and for ENUM-typed
// properties the enumerated value domains.
//
// The walk runs synchronously to completion or first error. Ordinal position
// in the returned [Model] is the stable property identifier for all later
// calls. On success the model is also installed on the session (see
// [Session.Model]); on any error nothing is installed and the partial walk
// is discarded.
func (s *Session) Introspect() (*Model, error) {
	count, err := s.InfoPropertyCount()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("usis: introspection started", "port", s.tr.name, "properties", count)

	props := make([]Property, 0, count)
	for p := 0; p < count; p++ {
		prop, err := s.introspectProperty(p)
		if err != nil {
			return nil, err
		}

		props = append(props, *prop)
	}

	model := &Model{properties: props}
	s.model = model

	s.logger.Info("usis: introspection complete", "port", s.tr.name, "properties", model.Len())

	return model, nil
}

func (s *Session) introspectProperty(p int) (*Property, error) {
	name, err := s.InfoPropertyName(p)
	if err != nil {
		return nil, err
	}

	typ, err := s.InfoPropertyType(p)
	if err != nil {
		return nil, err
	}

	state, err := s.InfoPropertyState(p)
	if err != nil {
		return nil, err
	}

	attrCount, err := s.InfoPropertyAttrCount(p)
	if err != nil {
		return nil, err
	}

	prop := &Property{
		Name:       name,
		Type:       PropertyType(typ),
		State:      state,
		Attributes: make([]Attribute, 0, attrCount),
	}

	for a := 0; a < attrCount; a++ {
		attr, err := s.introspectAttribute(p, a, prop.Type)
		if err != nil {
			return nil, err
		}

		prop.Attributes = append(prop.Attributes, *attr)
	}

	s.logger.Debug("usis: property discovered",
		"index", p, "name", name, "type", typ, "state", state, "attributes", attrCount)

	return prop, nil
}

func (s *Session) introspectAttribute(p, a int, propType PropertyType) (*Attribute, error) {
	name, err := s.InfoPropertyAttrName(p, a)
	if err != nil {
		return nil, err
	}

	mode, err := s.InfoPropertyAttrMode(p, a)
	if err != nil {
		return nil, err
	}

	attr := &Attribute{
		Name: name,
		Mode: AccessMode(mode),
	}

	if propType != TypeEnum {
		return attr, nil
	}

	enumCount, err := s.InfoPropertyAttrEnumCount(p, a)
	if err != nil {
		return nil, err
	}

	attr.EnumValues = make([]string, 0, enumCount)
	for e := 0; e < enumCount; e++ {
		// PROPERTY_ATTR_ENUM_VALUE addresses enum values by property index
		// and a running enumeration index, not by the attribute index being
		// walked. A property with more than one enumerable attribute gets
		// the same value domain attached to each; see the introspection
		// tests for the observable consequence.
		value, err := s.InfoPropertyAttrEnumValue(p, e)
		if err != nil {
			return nil, err
		}

		attr.EnumValues = append(attr.EnumValues, value)
	}

	return attr, nil
}
