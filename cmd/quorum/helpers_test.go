package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapStdin points os.Stdin at a pipe carrying content for one test.
func swapStdin(t *testing.T, content string) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	orig := os.Stdin
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = orig
		r.Close()
	})
}

func TestReadContentArgPrefersArgument(t *testing.T) {
	got, err := readContentArg([]string{"why is the sky blue"})
	require.NoError(t, err)
	assert.Equal(t, "why is the sky blue", got)
}

func TestReadContentArgReadsPipedStdin(t *testing.T) {
	swapStdin(t, "piped question")
	got, err := readContentArg(nil)
	require.NoError(t, err)
	assert.Equal(t, "piped question", got)
}

func TestReadContentArgEmptyStdin(t *testing.T) {
	swapStdin(t, "")
	_, err := readContentArg(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input")
}

func TestKeyPreview(t *testing.T) {
	assert.Equal(t, "(none)", keyPreview(""))
	assert.Equal(t, "s...", keyPreview("short"))
	assert.Equal(t, "sk-1234567...", keyPreview("sk-1234567890abcdef"))
}
