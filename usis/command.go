package usis

import (
	"fmt"
	"strconv"
	"strings"
)

// Introspection accessors. Each is one thin exchange of a fixed INFO command
// template, returning only the value field of the reply. They are the
// building blocks of [Session.Introspect] and are exported for consumers
// that need to probe a single schema element.

// InfoPropertyCount returns the number of properties the device exposes.
func (s *Session) InfoPropertyCount() (int, error) {
	v, _, err := s.Exchange("INFO;PROPERTY_COUNT")
	if err != nil {
		return 0, err
	}

	return parseCount("PROPERTY_COUNT", v)
}

// InfoPropertyName returns the name of the property at ordinal prop.
func (s *Session) InfoPropertyName(prop int) (string, error) {
	v, _, err := s.Exchange(fmt.Sprintf("INFO;PROPERTY_NAME;%d", prop))

	return v, err
}

// InfoPropertyType returns the type of the property at ordinal prop.
func (s *Session) InfoPropertyType(prop int) (string, error) {
	v, _, err := s.Exchange(fmt.Sprintf("INFO;PROPERTY_TYPE;%d", prop))

	return v, err
}

// InfoPropertyState returns the state of the property at ordinal prop.
func (s *Session) InfoPropertyState(prop int) (string, error) {
	v, _, err := s.Exchange(fmt.Sprintf("INFO;PROPERTY_STATE;%d", prop))

	return v, err
}

// InfoPropertyAttrCount returns the number of attributes of the property at
// ordinal prop.
func (s *Session) InfoPropertyAttrCount(prop int) (int, error) {
	v, _, err := s.Exchange(fmt.Sprintf("INFO;PROPERTY_ATTR_COUNT;%d", prop))
	if err != nil {
		return 0, err
	}

	return parseCount("PROPERTY_ATTR_COUNT", v)
}

// InfoPropertyAttrName returns the name of attribute attr of the property at
// ordinal prop.
func (s *Session) InfoPropertyAttrName(prop, attr int) (string, error) {
	v, _, err := s.Exchange(fmt.Sprintf("INFO;PROPERTY_ATTR_NAME;%d;%d", prop, attr))

	return v, err
}

// InfoPropertyAttrMode returns the access mode of attribute attr of the
// property at ordinal prop.
func (s *Session) InfoPropertyAttrMode(prop, attr int) (string, error) {
	v, _, err := s.Exchange(fmt.Sprintf("INFO;PROPERTY_ATTR_MODE;%d;%d", prop, attr))

	return v, err
}

// InfoPropertyAttrEnumCount returns the number of enumerated values of
// attribute attr of the property at ordinal prop.
func (s *Session) InfoPropertyAttrEnumCount(prop, attr int) (int, error) {
	v, _, err := s.Exchange(fmt.Sprintf("INFO;PROPERTY_ATTR_ENUM_COUNT;%d;%d", prop, attr))
	if err != nil {
		return 0, err
	}

	return parseCount("PROPERTY_ATTR_ENUM_COUNT", v)
}

// InfoPropertyAttrEnumValue returns the enumerated value at index enum of
// the property at ordinal prop. The command addresses enum values by
// property and enumeration index, not by attribute index.
func (s *Session) InfoPropertyAttrEnumValue(prop, enum int) (string, error) {
	v, _, err := s.Exchange(fmt.Sprintf("INFO;PROPERTY_ATTR_ENUM_VALUE;%d;%d", prop, enum))

	return v, err
}

// Operation accessors. Properties and attributes are addressed by name,
// as discovered during introspection.

// Get reads the live value of one attribute of one property, returning the
// value and the property state.
func (s *Session) Get(property, attribute string) (value, state string, err error) {
	return s.Exchange(fmt.Sprintf("GET;%s;%s", property, attribute))
}

// Set writes a target to the VALUE attribute of the named property.
//
// The caller is responsible for rendering the target into its protocol
// string form (float formatting, or the exact enum label from the model)
// before calling.
func (s *Session) Set(property, target string) (value, state string, err error) {
	return s.Exchange(fmt.Sprintf("SET;%s;VALUE;%s", property, target))
}

// Stop halts the motion of the named (motorized) property.
func (s *Session) Stop(property string) (value, state string, err error) {
	return s.Exchange(fmt.Sprintf("STOP;%s", property))
}

// Calib recalibrates the named property against a reference value, rendered
// to its protocol string form by the caller.
func (s *Session) Calib(property, reference string) (value, state string, err error) {
	return s.Exchange(fmt.Sprintf("CALIB;%s;%s", property, reference))
}

// maxCount bounds every device-reported count field. Real instruments expose
// tens of properties; a count past this ceiling indicates a corrupt or
// misbehaving device, and must never size an allocation or a query loop.
const maxCount = 4096

// parseCount parses an introspection count field. Devices answer counts as
// decimal integers within [0, maxCount]; anything else is a protocol error,
// not a panic.
func parseCount(field, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: unparsable count %q", ErrProtocol, field, v)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s: negative count %d", ErrProtocol, field, n)
	}
	if n > maxCount {
		return 0, fmt.Errorf("%w: %s: implausible count %d", ErrProtocol, field, n)
	}

	return n, nil
}
