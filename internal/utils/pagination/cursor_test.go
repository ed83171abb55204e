package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_EmptyIsFirstPage(t *testing.T) {
	c, err := Decode("")
	require.NoError(t, err)
	assert.True(t, c.IsZero())
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := Decode("%%%")
	assert.EqualError(t, err, "invalid pagination token")

	_, err = Decode("bm90LWpzb24=") // "not-json"
	assert.EqualError(t, err, "invalid pagination token")
}

func TestEncode_Decodes(t *testing.T) {
	token, err := Encode(Cursor{ID: 42, CreatedUnix: 1700000000123})
	require.NoError(t, err)

	c, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), c.ID)
	assert.Equal(t, int64(1700000000123), c.CreatedUnix)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, 5, ClampLimit(5))
	assert.Equal(t, MaxLimit, ClampLimit(500))
}
