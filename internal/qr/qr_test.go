package qr

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURL(t *testing.T) {
	t.Parallel()

	out, err := DataURL("https://img.example/abc")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(out, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("\x89PNG")))
}

func TestDataURLDeterministic(t *testing.T) {
	t.Parallel()

	a, err := DataURL("https://img.example/abc")
	require.NoError(t, err)
	b, err := DataURL("https://img.example/abc")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
