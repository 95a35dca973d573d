package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, CheckPassword("password123", hash))
	assert.False(t, CheckPassword("password124", hash))
}

func TestMaskName(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"Bo":          "**",
		"Anna":        "****",
		"Alice":       "Al*ce",
		"Jane Doe":    "Ja***oe",
		"  Li  Wei  ": "Li*ei",
		"Zoë Müller":  "Zo*****er",
	}
	for in, want := range tests {
		assert.Equal(t, want, MaskName(in), in)
	}
}
