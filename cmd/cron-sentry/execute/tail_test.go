package execute

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureFile(t *testing.T, content string) *os.File {
	t.Helper()

	f, err := os.Create(filepath.Join(t.TempDir(), "capture"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	_, err = f.WriteString(content)
	require.NoError(t, err)
	return f
}

func TestLastLinesSmallContent(t *testing.T) {
	f := captureFile(t, "hello\nworld\n")

	tail, err := lastLines(f, 4096)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", tail)
}

func TestLastLinesEmptyContent(t *testing.T) {
	f := captureFile(t, "")

	tail, err := lastLines(f, 10)
	require.NoError(t, err)
	assert.Equal(t, "", tail)
}

func TestLastLinesContentAtLimit(t *testing.T) {
	// A store exactly at the limit is already truncated.
	f := captureFile(t, "0123456789")

	tail, err := lastLines(f, 10)
	require.NoError(t, err)
	assert.Equal(t, "...3456789", tail)
	assert.LessOrEqual(t, len(tail), 10)
}

func TestLastLinesContentJustBelowLimit(t *testing.T) {
	f := captureFile(t, "012345678")

	tail, err := lastLines(f, 10)
	require.NoError(t, err)
	assert.Equal(t, "012345678", tail)
}

func TestLastLinesLongContent(t *testing.T) {
	f := captureFile(t, strings.Repeat("a", 5000))

	tail, err := lastLines(f, 10)
	require.NoError(t, err)
	assert.Equal(t, "...aaaaaaa", tail)
}

func TestLastLinesMultiByteBoundary(t *testing.T) {
	// 5 two-byte runes, 10 bytes. The byte-oriented seek lands in the
	// middle of a rune and the partial leading bytes are kept verbatim.
	f := captureFile(t, strings.Repeat("é", 5))

	tail, err := lastLines(f, 8)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tail, "..."))
	assert.Equal(t, 8, len(tail))
	assert.False(t, utf8.ValidString(tail))
}
