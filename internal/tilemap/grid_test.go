package tilemap

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseASCII(t *testing.T) {
	m, err := ParseASCII(strings.NewReader("..#\n#..\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Width())
	assert.Equal(t, 2, m.Height())
	assert.Equal(t, 2, m.LayerCount())

	collision := m.Collision()
	require.NotNil(t, collision)
	assert.True(t, collision.HasTile(2, 0))
	assert.True(t, collision.HasTile(0, 1))
	assert.False(t, collision.HasTile(0, 0))
}

func TestParseASCIIErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrDimensions},
		{"only blank lines", "\n\n  \n", ErrDimensions},
		{"ragged rows", "...\n..\n", ErrRaggedRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseASCII(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestLoadASCIIFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.txt")
	require.NoError(t, os.WriteFile(path, []byte("....\n.##.\n....\n"), 0o644))

	m, err := LoadASCIIFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Width())
	assert.True(t, m.Collision().HasTile(1, 1))

	_, err = LoadASCIIFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewGridWalkability(t *testing.T) {
	m := MustParseASCII(`
.#.
...
`)
	g, err := NewGrid(m, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, 3, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.True(t, g.Walkable(0, 0))
	assert.False(t, g.Walkable(1, 0))
	assert.True(t, g.Walkable(1, 1))
	assert.Equal(t, 5, g.WalkableCount())

	// Outside the grid is never walkable
	assert.False(t, g.Walkable(-1, 0))
	assert.False(t, g.Walkable(3, 0))
	assert.False(t, g.Walkable(0, 2))
}

func TestNewGridIsSnapshot(t *testing.T) {
	m := NewTwoLayer(4, 4)
	g, err := NewGrid(m, quietLogger())
	require.NoError(t, err)

	m.Collision().Place(1, 1)
	assert.True(t, g.Walkable(1, 1), "grid must not observe later map changes")
}

func TestNewGridLayerCounts(t *testing.T) {
	t.Run("no layers fails", func(t *testing.T) {
		_, err := NewGrid(NewLayers(4, 4), quietLogger())
		assert.ErrorIs(t, err, ErrNoLayers)
	})

	t.Run("single layer is fully walkable", func(t *testing.T) {
		g, err := NewGrid(NewLayers(4, 3, NewTileLayer(4, 3)), quietLogger())
		require.NoError(t, err)
		assert.Equal(t, 12, g.WalkableCount())
	})

	t.Run("extra layers are ignored", func(t *testing.T) {
		collision := NewTileLayer(2, 2)
		collision.Place(0, 0)
		extra := NewTileLayer(2, 2)
		extra.Place(1, 1)
		g, err := NewGrid(NewLayers(2, 2, NewTileLayer(2, 2), collision, extra), quietLogger())
		require.NoError(t, err)
		assert.False(t, g.Walkable(0, 0))
		assert.True(t, g.Walkable(1, 1))
	})

	t.Run("mismatched collision layer fails", func(t *testing.T) {
		_, err := NewGrid(NewLayers(4, 4, NewTileLayer(4, 4), NewTileLayer(3, 4)), quietLogger())
		assert.ErrorIs(t, err, ErrLayerSize)
	})

	t.Run("non-positive dimensions fail", func(t *testing.T) {
		_, err := NewGrid(NewTwoLayer(0, 4), quietLogger())
		assert.ErrorIs(t, err, ErrDimensions)
	})
}
