package need

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePacket(t *testing.T) {
	t.Run("open need", func(t *testing.T) {
		p, err := ParsePacket([]byte(`{"@event_name":"behov","@behov":["A","B"],"ident":"123"}`))
		require.NoError(t, err)
		assert.True(t, p.IsOpenNeed())
		assert.Equal(t, []string{"A", "B"}, p.Needs())
		v, ok := p.String("ident")
		assert.True(t, ok)
		assert.Equal(t, "123", v)
	})

	t.Run("solved need is not open", func(t *testing.T) {
		p, err := ParsePacket([]byte(`{"@event_name":"behov","@behov":["A"],"@løsning":{"A":[]}}`))
		require.NoError(t, err)
		assert.False(t, p.IsOpenNeed())
	})

	t.Run("null solution does not count", func(t *testing.T) {
		p, err := ParsePacket([]byte(`{"@event_name":"behov","@behov":["A"],"@løsning":null}`))
		require.NoError(t, err)
		assert.True(t, p.IsOpenNeed())
	})

	t.Run("other events are not needs", func(t *testing.T) {
		p, err := ParsePacket([]byte(`{"@event_name":"søknad_innsendt"}`))
		require.NoError(t, err)
		assert.False(t, p.IsOpenNeed())
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParsePacket([]byte(`{"@event_name":`))
		assert.ErrorContains(t, err, "parse packet")
	})

	t.Run("need list of the wrong type", func(t *testing.T) {
		_, err := ParsePacket([]byte(`{"@event_name":"behov","@behov":"A"}`))
		assert.ErrorContains(t, err, "@behov")
	})
}

func TestPacketRequire(t *testing.T) {
	p, err := ParsePacket([]byte(`{"a":"1","b":"","c":3}`))
	require.NoError(t, err)

	got, err := p.Require("a")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1"}, got)

	_, err = p.Require("a", "b")
	assert.ErrorIs(t, err, errInvalidMessage)
	assert.ErrorContains(t, err, "missing b")

	_, err = p.Require("c")
	assert.ErrorContains(t, err, "missing c")
}

func TestWithSolutionKeepsMessage(t *testing.T) {
	p, err := ParsePacket([]byte(`{"@event_name":"behov","@behov":["A"],"@id":"x","nested":{"k":[1,2]}}`))
	require.NoError(t, err)

	out, err := p.WithSolution("A", []string{"done"})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "x", got["@id"])
	assert.Equal(t, map[string]any{"k": []any{1.0, 2.0}}, got["nested"])
	assert.Equal(t, map[string]any{"A": []any{"done"}}, got["@løsning"])
}

func TestPacketRaw(t *testing.T) {
	p, err := ParsePacket([]byte(`{"obj":{"k":1},"nil":null}`))
	require.NoError(t, err)

	raw, ok := p.Raw("obj")
	assert.True(t, ok)
	assert.JSONEq(t, `{"k":1}`, string(raw))

	_, ok = p.Raw("nil")
	assert.False(t, ok)
	_, ok = p.Raw("absent")
	assert.False(t, ok)
}
