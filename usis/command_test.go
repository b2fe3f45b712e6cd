package usis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_InfoAccessors(t *testing.T) {
	dev := newSimDevice(uvexReplies())
	sess := newTestSession(t, dev)

	count, err := sess.InfoPropertyCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	name, err := sess.InfoPropertyName(0)
	require.NoError(t, err)
	assert.Equal(t, "GRATING_ANGLE", name)

	typ, err := sess.InfoPropertyType(0)
	require.NoError(t, err)
	assert.Equal(t, "FLOAT", typ)

	state, err := sess.InfoPropertyState(0)
	require.NoError(t, err)
	assert.Equal(t, "OK", state)

	attrCount, err := sess.InfoPropertyAttrCount(0)
	require.NoError(t, err)
	assert.Equal(t, 2, attrCount)

	attrName, err := sess.InfoPropertyAttrName(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "UNIT", attrName)

	mode, err := sess.InfoPropertyAttrMode(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "RO", mode)

	enumCount, err := sess.InfoPropertyAttrEnumCount(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, enumCount)

	enumValue, err := sess.InfoPropertyAttrEnumValue(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "CALIB", enumValue)
}

func TestSession_InfoCount_Unparsable(t *testing.T) {
	dev := newSimDevice(map[string]string{
		"INFO;PROPERTY_COUNT": "M00;OK;many",
	})
	sess := newTestSession(t, dev)

	_, err := sess.InfoPropertyCount()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProtocol)
	assert.False(t, IsFatal(err))
}

func TestSession_InfoCount_Negative(t *testing.T) {
	dev := newSimDevice(map[string]string{
		"INFO;PROPERTY_COUNT": "M00;OK;-1",
	})
	sess := newTestSession(t, dev)

	_, err := sess.InfoPropertyCount()
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestSession_InfoCount_Implausible(t *testing.T) {
	// A wire-valid reply carrying an absurd count must come back as a
	// protocol error instead of sizing an allocation.
	dev := newSimDevice(map[string]string{
		"INFO;PROPERTY_COUNT": "M00;OK;9000000000000000000",
	})
	sess := newTestSession(t, dev)

	_, err := sess.InfoPropertyCount()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProtocol)
	assert.False(t, IsFatal(err))
}

func TestSession_OperationCommandTemplates(t *testing.T) {
	// Every operation must hit the device with its exact command shape.
	dev := newSimDevice(map[string]string{
		"GET;GRATING_ANGLE;VALUE":       "M00;OK;12.50",
		"SET;GRATING_ANGLE;VALUE;13.00": "M00;BUSY;12.50",
		"STOP;GRATING_ANGLE":            "M00;OK;12.70",
		"CALIB;GRATING_ANGLE;12.70":     "M00;OK;12.70",
	})
	sess := newTestSession(t, dev)

	value, state, err := sess.Get("GRATING_ANGLE", "VALUE")
	require.NoError(t, err)
	assert.Equal(t, "12.50", value)
	assert.Equal(t, "OK", state)

	value, state, err = sess.Set("GRATING_ANGLE", "13.00")
	require.NoError(t, err)
	assert.Equal(t, "12.50", value)
	assert.Equal(t, "BUSY", state)

	_, _, err = sess.Stop("GRATING_ANGLE")
	require.NoError(t, err)

	_, _, err = sess.Calib("GRATING_ANGLE", "12.70")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"GET;GRATING_ANGLE;VALUE",
		"SET;GRATING_ANGLE;VALUE;13.00",
		"STOP;GRATING_ANGLE",
		"CALIB;GRATING_ANGLE;12.70",
	}, dev.commands)
}
