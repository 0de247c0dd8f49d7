package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootWiresSubcommands(t *testing.T) {
	root := NewRoot(context.Background(), "deadbeef")
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Use] = true
	}
	assert.True(t, names["version"])
	assert.True(t, names["decode"])
	assert.True(t, names["analyze"])
}

func TestParseIntCSV(t *testing.T) {
	vals, err := parseIntCSV("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, vals)

	vals, err = parseIntCSV("")
	require.NoError(t, err)
	assert.Nil(t, vals)

	_, err = parseIntCSV("1,x,3")
	assert.Error(t, err)
}

func TestParseByteCSV(t *testing.T) {
	vals, err := parseByteCSV("0,255,16")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 255, 16}, vals)
}
