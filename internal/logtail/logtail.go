package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines lines from the end of the file at path whose
// level is at least minLevel. maxLines <= 0 returns every matching line.
// Lines without a level= field are treated as info. A missing file yields
// no lines.
func Read(path string, maxLines int, minLevel slog.Level) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var kept []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if LevelOf(line) < minLevel {
			continue
		}
		kept = append(kept, line)
		if maxLines > 0 && len(kept) > 2*maxLines {
			kept = append(kept[:0], kept[len(kept)-maxLines:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if maxLines > 0 && len(kept) > maxLines {
		kept = kept[len(kept)-maxLines:]
	}
	return kept, nil
}

// LevelOf extracts the level of a slog text line.
func LevelOf(line string) slog.Level {
	_, rest, ok := strings.Cut(line, "level=")
	if !ok {
		return slog.LevelInfo
	}
	word, _, _ := strings.Cut(rest, " ")
	var level slog.Level
	if err := level.UnmarshalText([]byte(word)); err != nil {
		return slog.LevelInfo
	}
	return level
}

var levelStyles = map[slog.Level]lipgloss.Style{
	slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("#63CDCF")),
	slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#81B29A")),
	slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#DBC074")).Bold(true),
	slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("#C94F6D")).Bold(true),
}

// Colorize renders the level= field of a slog text line in its level's
// color. Other lines are returned unchanged.
func Colorize(line string) string {
	start := strings.Index(line, "level=")
	if start < 0 {
		return line
	}
	end := start + len("level=")
	if sp := strings.IndexByte(line[end:], ' '); sp >= 0 {
		end += sp
	} else {
		end = len(line)
	}
	style, ok := levelStyles[LevelOf(line)]
	if !ok {
		return line
	}
	return line[:start] + style.Render(line[start:end]) + line[end:]
}
