package checkout_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/nikolayk812/cartsim/internal/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDGenerator_UniqueAndOrdered(t *testing.T) {
	var gen checkout.ULIDGenerator

	ids := make([]string, 0, 1000)
	seen := make(map[string]struct{}, 1000)

	for range 1000 {
		id := gen.GenerateID()
		require.True(t, strings.HasPrefix(id, checkout.OrderIDPrefix))

		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}

		ids = append(ids, id)
	}

	assert.True(t, slices.IsSorted(ids))
}
