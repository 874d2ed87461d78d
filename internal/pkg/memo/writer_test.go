package memo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter(t *testing.T) {
	_, err := NewWriter("")
	assert.NotNil(t, err)
	w, err := NewWriter("memos.txt")
	assert.Nil(t, err)
	assert.NotNil(t, w)
}

func TestAppend(t *testing.T) {
	file := filepath.Join(t.TempDir(), "memos.txt")
	w, err := NewWriter(file)
	require.Nil(t, err)
	loc := time.FixedZone("olia", -6*3600)
	w.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 8_000_000, loc) }

	require.Nil(t, w.Append("I need a pump"))
	require.Nil(t, w.Append("second"))

	b, err := os.ReadFile(file)
	require.Nil(t, err)
	assert.Equal(t, "2025-03-04T11:06:07.008Z | I need a pump\n2025-03-04T11:06:07.008Z | second\n", string(b))
}

func TestAppend_Fail(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "no", "memos.txt"))
	require.Nil(t, err)

	assert.NotNil(t, w.Append("olia"))
}
