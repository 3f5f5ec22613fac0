package headlong

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventIndexedManifestArity(t *testing.T) {
	inputs := NewTuple(mustType(t, "address"), mustType(t, "uint256"))
	_, err := NewEvent("Transfer", inputs, []bool{true}, false)
	assert.ErrorIs(t, err, InvalidValue)

	ev, err := NewEvent("Transfer", inputs, []bool{true, false}, false)
	require.NoError(t, err)
	assert.Len(t, ev.GetIndexedParams(), 1)
	assert.Len(t, ev.GetNonIndexedParams(), 1)
	assert.Equal(t, "address", ev.GetIndexedParams()[0].Canonical)
	assert.Equal(t, "uint256", ev.GetNonIndexedParams()[0].Canonical)
}

func TestAnonymousEventHasZeroTopic(t *testing.T) {
	inputs := NewTuple(mustType(t, "uint256"))
	ev, err := NewEvent("Ping", inputs, []bool{false}, true)
	require.NoError(t, err)
	assert.Equal(t, [32]byte{}, ev.Topic())
}

func TestEventTopicExcludesIndexedness(t *testing.T) {
	inputs := NewTuple(mustType(t, "address"), mustType(t, "uint256"))
	a, err := NewEvent("Transfer", inputs, []bool{true, false}, false)
	require.NoError(t, err)
	b, err := NewEvent("Transfer", inputs, []bool{false, true}, false)
	require.NoError(t, err)
	assert.Equal(t, a.Topic(), b.Topic())
}
