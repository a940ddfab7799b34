package id

import (
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UniqueAndParseable(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		v := New()
		_, err := ulid.Parse(v)
		require.NoError(t, err)
		_, dup := seen[v]
		require.False(t, dup, "duplicate id %s", v)
		seen[v] = struct{}{}
	}
}

func TestOrderNumber(t *testing.T) {
	n := OrderNumber()
	assert.True(t, strings.HasPrefix(n, "ORD-"))
	assert.Len(t, n, 4+26)
}
