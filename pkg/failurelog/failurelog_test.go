package failurelog

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")

	l := New(path)
	l.now = func() time.Time { return time.Date(2024, 5, 17, 9, 30, 15, 123456000, time.Local) }

	require.NoError(t, l.Append(errors.New("write failed: connection refused")))
	require.NoError(t, l.Append(errors.New("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[2024-05-17T09:30:15.123456] write failed: connection refused", lines[0])
	assert.Equal(t, "[2024-05-17T09:30:15.123456] second", lines[1])
}

func TestLog_AppendWholeSecond(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")

	l := New(path)
	l.now = func() time.Time { return time.Date(2024, 5, 17, 9, 30, 15, 0, time.Local) }

	require.NoError(t, l.Append(errors.New("boom")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[2024-05-17T09:30:15.000000] boom\n", string(data))
}

func TestLog_AppendNeverTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o600))

	require.NoError(t, New(path).Append(errors.New("boom")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(data), "previous run\n"))
	assert.Regexp(t, regexp.MustCompile(`\n\[\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{6}\] boom\n$`), string(data))
}

func TestLog_AppendUnwritablePath(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "missing-dir", "error.log"))

	err := l.Append(errors.New("boom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open failure log")
}
