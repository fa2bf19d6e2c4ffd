package tilemap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Collision marks a blocking tile in the ASCII map format.
const Collision = '#'

// ParseASCII reads a text map: one row per line, '#' is a collision tile and
// any other character is floor. Leading empty lines and trailing blank lines
// are ignored.
func ParseASCII(r io.Reader) (*Layers, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		rows = append(rows, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading map: %w", err)
	}
	for len(rows) > 0 && rows[0] == "" {
		rows = rows[1:]
	}
	for len(rows) > 0 && strings.TrimSpace(rows[len(rows)-1]) == "" {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty map", ErrDimensions)
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrRaggedRows, i, len(row), width)
		}
	}

	m := NewTwoLayer(width, len(rows))
	collision := m.Collision()
	for y, row := range rows {
		for x := 0; x < width; x++ {
			if row[x] == Collision {
				collision.Place(x, y)
			}
		}
	}
	return m, nil
}

// MustParseASCII parses a map from a string and panics on error. For tests and fixtures.
func MustParseASCII(s string) *Layers {
	m, err := ParseASCII(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return m
}

// LoadASCIIFile reads a text map from disk.
func LoadASCIIFile(path string) (*Layers, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map %s: %w", path, err)
	}
	defer f.Close()

	m, err := ParseASCII(f)
	if err != nil {
		return nil, fmt.Errorf("parse map %s: %w", path, err)
	}
	return m, nil
}
