package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigup-dev/rigup/internal/envelope"
	rigerrors "github.com/rigup-dev/rigup/internal/errors"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	runErr := fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), runErr
}

func TestFinishEmitsEnvelopeWithJSONFlag(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	humanRan := false
	out, err := captureStdout(t, func() error {
		return finish("plan", "20251219-010000", map[string]int{"n": 1}, func() { humanRan = true })
	})
	require.NoError(t, err)
	assert.False(t, humanRan)

	var env envelope.Envelope
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, "plan", env.Command)
	assert.Equal(t, "20251219-010000", env.RunID)
	assert.True(t, env.Success)
}

func TestFinishRunsHumanPrinterWithoutJSONFlag(t *testing.T) {
	jsonOutput = false

	humanRan := false
	out, err := captureStdout(t, func() error {
		return finish("plan", "20251219-010000", nil, func() { humanRan = true })
	})
	require.NoError(t, err)
	assert.True(t, humanRan)
	assert.NotContains(t, out, "schemaVersion")
}

func TestFinishErrEmitsFailureEnvelopeAndReturnsError(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	cause := rigerrors.NewManifestNotFoundError("/tmp/nope.yaml")
	out, err := captureStdout(t, func() error {
		return finishErr("plan", cause)
	})
	require.ErrorIs(t, err, cause)

	var env envelope.Envelope
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(rigerrors.CodeManifestNotFound), env.Error.Code)
}

func TestFinishErrStaysQuietWithoutJSONFlag(t *testing.T) {
	jsonOutput = false

	cause := errors.New("boom")
	out, err := captureStdout(t, func() error {
		return finishErr("apply", cause)
	})
	assert.Equal(t, cause, err)
	assert.Empty(t, out)
}
