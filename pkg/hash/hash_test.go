package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(4) // low cost keeps the test fast

	digest, err := h.Hash("pw12345678")
	require.NoError(t, err)
	assert.NotEqual(t, "pw12345678", digest)

	assert.True(t, h.Verify("pw12345678", digest))
	assert.False(t, h.Verify("wrong", digest))
}

func TestHashesAreSalted(t *testing.T) {
	h := NewHasher(4)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestOutOfRangeCostFallsBack(t *testing.T) {
	h := NewHasher(99)
	digest, err := h.Hash("pw")
	require.NoError(t, err)
	assert.True(t, h.Verify("pw", digest))
}
