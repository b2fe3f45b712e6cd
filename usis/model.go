package usis

// PropertyType is the device-reported type of a property. The set is open:
// devices may report types beyond the ones named here.
type PropertyType string

// Property types defined by the USIS specification.
const (
	TypeFloat PropertyType = "FLOAT"
	TypeEnum  PropertyType = "ENUM"
)

// AccessMode is the device-reported access mode of an attribute.
type AccessMode string

// Attribute access modes.
const (
	ReadOnly  AccessMode = "RO"
	ReadWrite AccessMode = "RW"
)

// Attribute is one named facet of a property (its current value, bounds,
// precision, unit, ...).
type Attribute struct {
	// Name is the attribute name (e.g. "VALUE", "MIN", "MAX").
	Name string

	// Mode is the access mode the device reported for this attribute.
	Mode AccessMode

	// EnumValues is the ordered value domain of the attribute. It is only
	// populated on attributes of ENUM-typed properties; nil otherwise.
	EnumValues []string
}

// Writable reports whether the attribute accepts SET.
func (a *Attribute) Writable() bool {
	return a.Mode == ReadWrite
}

// Property is one named, independently addressable quantity of the
// instrument (e.g. grating angle).
type Property struct {
	// Name is the property name, unique per device.
	Name string

	// Type is the device-reported property type.
	Type PropertyType

	// State is the property state captured at introspection time. Live
	// state is returned with every Get and is not maintained here.
	State string

	// Attributes is the ordered attribute list, in device ordinal order.
	Attributes []Attribute
}

// Attribute returns the named attribute, or nil if the property has none by
// that name.
func (p *Property) Attribute(name string) *Attribute {
	for i := range p.Attributes {
		if p.Attributes[i].Name == name {
			return &p.Attributes[i]
		}
	}

	return nil
}

// Model is the capability description of one instrument, an ordered sequence
// of properties indexed by the ordinal position assigned during
// introspection. That position is the stable identifier later calls use;
// the model itself is never mutated after introspection completes.
type Model struct {
	properties []Property
}

// NewModel builds a model from an ordered property list. Introspect produces
// models directly; NewModel exists for callers that restore a previously
// discovered capability set, and for tests.
func NewModel(properties []Property) *Model {
	return &Model{properties: append([]Property(nil), properties...)}
}

// Len returns the number of properties in the model.
func (m *Model) Len() int {
	return len(m.properties)
}

// Property returns the property at the given introspection index, or nil if
// the index is out of range.
func (m *Model) Property(i int) *Property {
	if i < 0 || i >= len(m.properties) {
		return nil
	}

	return &m.properties[i]
}

// PropertyByName returns the named property and its introspection index, or
// (nil, -1) if the model has no property by that name.
func (m *Model) PropertyByName(name string) (*Property, int) {
	for i := range m.properties {
		if m.properties[i].Name == name {
			return &m.properties[i], i
		}
	}

	return nil, -1
}

// Properties returns the ordered property list. The returned slice is the
// model's backing store; callers must treat it as read-only.
func (m *Model) Properties() []Property {
	return m.properties
}

// FindAttribute returns the named attribute of the named property, or nil if
// either does not exist.
func (m *Model) FindAttribute(property, attribute string) *Attribute {
	prop, _ := m.PropertyByName(property)
	if prop == nil {
		return nil
	}

	return prop.Attribute(attribute)
}

// DefaultMotorizedProperties names the properties that are conventionally
// motor-driven on USIS spectroscopes and therefore meaningful targets for
// STOP and CALIB. The protocol itself does not flag motorization; this list
// reflects the UVEX property set and can be overridden by consumers that
// know their instrument better.
var DefaultMotorizedProperties = []string{
	"GRATING_ANGLE",
	"GRATING_WAVELENGTH",
	"FOCUS_POSITION",
}

// Motorized reports whether the named property is in
// [DefaultMotorizedProperties].
func (m *Model) Motorized(name string) bool {
	for _, p := range DefaultMotorizedProperties {
		if p == name {
			return true
		}
	}

	return false
}
