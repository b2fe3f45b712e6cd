package usis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel() *Model {
	return &Model{properties: []Property{
		{
			Name:  "GRATING_ANGLE",
			Type:  TypeFloat,
			State: "OK",
			Attributes: []Attribute{
				{Name: "VALUE", Mode: ReadWrite},
				{Name: "MIN", Mode: ReadOnly},
			},
		},
		{
			Name:  "LIGHT_SOURCE",
			Type:  TypeEnum,
			State: "OK",
			Attributes: []Attribute{
				{Name: "VALUE", Mode: ReadWrite, EnumValues: []string{"OFF", "FLAT"}},
			},
		},
	}}
}

func TestModel_Property(t *testing.T) {
	m := testModel()

	assert.Equal(t, 2, m.Len())
	require.NotNil(t, m.Property(0))
	assert.Equal(t, "GRATING_ANGLE", m.Property(0).Name)

	assert.Nil(t, m.Property(-1))
	assert.Nil(t, m.Property(2))
}

func TestModel_PropertyByName(t *testing.T) {
	m := testModel()

	prop, idx := m.PropertyByName("LIGHT_SOURCE")
	require.NotNil(t, prop)
	assert.Equal(t, 1, idx)
	assert.Equal(t, TypeEnum, prop.Type)

	prop, idx = m.PropertyByName("NO_SUCH")
	assert.Nil(t, prop)
	assert.Equal(t, -1, idx)
}

func TestModel_FindAttribute(t *testing.T) {
	m := testModel()

	attr := m.FindAttribute("GRATING_ANGLE", "MIN")
	require.NotNil(t, attr)
	assert.Equal(t, ReadOnly, attr.Mode)
	assert.False(t, attr.Writable())

	attr = m.FindAttribute("GRATING_ANGLE", "VALUE")
	require.NotNil(t, attr)
	assert.True(t, attr.Writable())

	assert.Nil(t, m.FindAttribute("GRATING_ANGLE", "NO_SUCH"))
	assert.Nil(t, m.FindAttribute("NO_SUCH", "VALUE"))
}

func TestModel_Motorized(t *testing.T) {
	m := testModel()

	assert.True(t, m.Motorized("GRATING_ANGLE"))
	assert.True(t, m.Motorized("FOCUS_POSITION"))
	assert.False(t, m.Motorized("LIGHT_SOURCE"))
}
