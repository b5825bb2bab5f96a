package logtail

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remic.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestRead(t *testing.T) {
	var all []string
	for i := 1; i <= 10; i++ {
		all = append(all, fmt.Sprintf("time=t level=INFO msg=\"line %d\"", i))
	}
	logPath := writeLog(t, all)

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, all},
		{"read all (negative)", -1, all},
		{"read partial (5)", 5, all[5:]},
		{"read exact (10)", 10, all},
		{"read more than available (20)", 20, all},
		{"read one", 1, all[9:]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines, slog.LevelDebug)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRead_FiltersByLevel(t *testing.T) {
	logPath := writeLog(t, []string{
		"time=t level=DEBUG msg=a",
		"time=t level=WARN msg=b",
		"plain line without level",
		"time=t level=ERROR msg=c",
		"time=t level=INFO msg=d",
	})

	got, err := Read(logPath, 0, slog.LevelWarn)
	require.NoError(t, err)
	assert.Equal(t, []string{"time=t level=WARN msg=b", "time=t level=ERROR msg=c"}, got)

	got, err = Read(logPath, 2, slog.LevelInfo)
	require.NoError(t, err)
	assert.Equal(t, []string{"time=t level=ERROR msg=c", "time=t level=INFO msg=d"}, got)
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 5, slog.LevelInfo)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLevelOf(t *testing.T) {
	tests := []struct {
		line string
		want slog.Level
	}{
		{"level=DEBUG msg=x", slog.LevelDebug},
		{"time=t level=WARN msg=x", slog.LevelWarn},
		{"time=t level=ERROR", slog.LevelError},
		{"no level here", slog.LevelInfo},
		{"level=LOUD msg=x", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelOf(tt.line), "LevelOf(%q)", tt.line)
	}
}

func TestColorize_KeepsTextAroundLevel(t *testing.T) {
	got := Colorize("time=t level=WARN msg=x")
	assert.True(t, strings.HasPrefix(got, "time=t "), got)
	assert.True(t, strings.HasSuffix(got, " msg=x"), got)
	assert.Contains(t, got, "level=WARN")

	assert.Equal(t, "no level", Colorize("no level"))
}
