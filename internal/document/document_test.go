package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalPreservesInsertionOrder(t *testing.T) {
	d := New()
	d.SetString("zulu", "last-set-first")
	d.SetInt("alpha", 1)
	d.SetBool("mike", true)

	assert.Equal(t, `{"zulu":"last-set-first","alpha":1,"mike":true}`, string(d.JSON()))
}

func TestSetExistingKeyKeepsPosition(t *testing.T) {
	d := New()
	d.SetString("a", "1")
	d.SetString("b", "2")
	d.SetString("a", "updated")

	assert.Equal(t, `{"a":"updated","b":"2"}`, string(d.JSON()))
}

func TestParseRoundTripKeepsOrder(t *testing.T) {
	raw := `{"request-type":"GetVersion","message-id":"42","nested":{"x":1,"y":2}}`

	d, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"request-type", "message-id", "nested"}, d.Keys())
	assert.Equal(t, raw, string(d.JSON()))
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{"", "{", `"just a string"`, "[1,2]", "not json at all"} {
		_, err := Parse([]byte(raw))
		assert.Error(t, err, "input %q", raw)
	}
}

func TestParseNumberTypes(t *testing.T) {
	d, err := Parse([]byte(`{"count":3,"volume":0.5,"big":9007199254740993}`))
	require.NoError(t, err)

	assert.Equal(t, int64(3), d.Int("count"))
	assert.Equal(t, 0.5, d.Float("volume"))
	assert.Equal(t, int64(9007199254740993), d.Int("big"))
}

func TestNumericCrossCoercion(t *testing.T) {
	d := New()
	d.SetInt("i", 7)
	d.SetFloat("f", 2.0)

	assert.Equal(t, 7.0, d.Float("i"))
	assert.Equal(t, int64(2), d.Int("f"))
}

func TestHasDistinguishesAbsentFromEmpty(t *testing.T) {
	d, err := Parse([]byte(`{"present":"","dropped":null}`))
	require.NoError(t, err)

	assert.True(t, d.Has("present"))
	assert.False(t, d.Has("dropped"))
	assert.False(t, d.Has("never-sent"))
}

func TestGettersFallBackToZeroValues(t *testing.T) {
	d := New()
	d.SetString("s", "text")

	assert.Equal(t, "", d.String("missing"))
	assert.Equal(t, int64(0), d.Int("missing"))
	assert.Equal(t, 0.0, d.Float("missing"))
	assert.False(t, d.Bool("missing"))
	assert.Nil(t, d.Doc("missing"))
	assert.Nil(t, d.Array("missing"))

	// wrong-type reads also fall back
	assert.Equal(t, int64(0), d.Int("s"))
	assert.False(t, d.Bool("s"))
}

func TestNestedDocumentsAndArrays(t *testing.T) {
	d, err := Parse([]byte(`{"scene":{"name":"Main","sources":[{"name":"cam"},{"name":"mic"}]}}`))
	require.NoError(t, err)

	scene := d.Doc("scene")
	require.NotNil(t, scene)
	assert.Equal(t, "Main", scene.String("name"))

	sources := scene.Array("sources")
	require.Len(t, sources, 2)
	assert.Equal(t, "cam", sources[0].String("name"))
	assert.Equal(t, "mic", sources[1].String("name"))
}

func TestSetArrayNilMarshalsAsEmpty(t *testing.T) {
	d := New()
	d.SetArray("sources", nil)

	assert.Equal(t, `{"sources":[]}`, string(d.JSON()))
}

func TestApplyOverlaysFields(t *testing.T) {
	base := New()
	base.SetString("server", "rtmp://a")
	base.SetString("key", "secret")

	overlay := New()
	overlay.SetString("server", "rtmp://b")
	overlay.SetInt("port", 1935)

	base.Apply(overlay)

	assert.Equal(t, "rtmp://b", base.String("server"))
	assert.Equal(t, "secret", base.String("key"))
	assert.Equal(t, int64(1935), base.Int("port"))
}

func TestApplyNilIsNoOp(t *testing.T) {
	base := New()
	base.SetString("k", "v")
	base.Apply(nil)
	assert.Equal(t, "v", base.String("k"))
}

func TestCloneIsIndependent(t *testing.T) {
	original := New()
	original.SetString("k", "v")

	clone := original.Clone()
	clone.SetString("k", "changed")
	clone.SetString("extra", "added")

	assert.Equal(t, "v", original.String("k"))
	assert.False(t, original.Has("extra"))
}

func TestLenAndKeys(t *testing.T) {
	d := New()
	assert.Equal(t, 0, d.Len())

	d.SetString("a", "1")
	d.SetString("b", "2")
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, []string{"a", "b"}, d.Keys())
}
