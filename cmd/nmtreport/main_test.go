package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInts(t *testing.T) {
	t.Run("ParsesDefaults", func(t *testing.T) {
		got, err := parseInts(joinInts([]int{2, 4, 8, 16}))
		require.NoError(t, err)
		assert.Equal(t, []int{2, 4, 8, 16}, got)
	})

	t.Run("SkipsEmptyParts", func(t *testing.T) {
		got, err := parseInts("100, ,200,")
		require.NoError(t, err)
		assert.Equal(t, []int{100, 200}, got)
	})

	t.Run("RejectsNonIntegers", func(t *testing.T) {
		_, err := parseInts("100,2x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"2x"`)
	})
}
