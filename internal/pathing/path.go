package pathing

import (
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

// pathSeq hands out the per-path sequence numbers used to order locks.
var pathSeq atomic.Uint64

// Path is an ordered list of tiles with its cumulative length. Consecutive
// tiles are always 8-adjacent, except after smoothing.
//
// A Path is safe for concurrent use. Operations touching two paths lock
// them in sequence-number order.
type Path struct {
	mu          sync.Mutex
	seq         uint64
	tiles       []Point
	length      float64
	lengthKnown bool
}

// NewPath returns a path through the given tiles. Tiles that are not
// adjacent to the previous one are dropped, as with AddStep.
func NewPath(tiles ...Point) *Path {
	p := &Path{
		seq:         pathSeq.Add(1),
		tiles:       make([]Point, 0, len(tiles)),
		lengthKnown: true,
	}
	for _, t := range tiles {
		p.addStepLocked(t)
	}
	return p
}

// AddStep extends the path by one tile. The first tile is always accepted;
// later tiles must be adjacent to the current end. Rejected steps are
// logged and leave the path unchanged.
func (p *Path) AddStep(next Point) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.addStepLocked(next)
}

func (p *Path) addStepLocked(next Point) bool {
	if len(p.tiles) == 0 {
		p.tiles = append(p.tiles, next)
		return true
	}
	end := p.tiles[len(p.tiles)-1]
	if end == next {
		slog.Debug("path step rejected: same as endpoint", "tile", next.String())
		return false
	}
	if !end.Adjacent(next) {
		slog.Debug("path step rejected: not adjacent", "end", end.String(), "tile", next.String())
		return false
	}
	p.tiles = append(p.tiles, next)
	p.length += stepCost(end, next)
	return true
}

// Append adds other to the end of p. If other starts on p's last tile the
// two are merged there. Otherwise other's first tile must be adjacent to
// p's end; it is added as a bridging step and the rest follows unchanged.
// A non-adjacent bridge leaves p untouched.
func (p *Path) Append(other *Path) {
	if other == nil {
		return
	}
	if other == p {
		p.Append(p.Clone())
		return
	}

	first, second := lockOrder(p, other)
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	p.appendLocked(other)
}

func (p *Path) appendLocked(other *Path) {
	if len(other.tiles) == 0 {
		return
	}
	if len(p.tiles) == 0 {
		p.tiles = append(p.tiles, other.tiles...)
		p.length = other.length
		p.lengthKnown = other.lengthKnown
		return
	}

	if p.tiles[len(p.tiles)-1] != other.tiles[0] && !p.addStepLocked(other.tiles[0]) {
		return
	}
	p.tiles = append(p.tiles, other.tiles[1:]...)
	p.length += other.length
	p.lengthKnown = p.lengthKnown && other.lengthKnown
}

func lockOrder(a, b *Path) (*Path, *Path) {
	if a.seq < b.seq {
		return a, b
	}
	return b, a
}

// Inverted returns a new path with the tiles in reverse order.
func (p *Path) Inverted() *Path {
	p.mu.Lock()
	defer p.mu.Unlock()

	inv := &Path{
		seq:         pathSeq.Add(1),
		tiles:       make([]Point, len(p.tiles)),
		length:      p.length,
		lengthKnown: p.lengthKnown,
	}
	for i, t := range p.tiles {
		inv.tiles[len(p.tiles)-1-i] = t
	}
	return inv
}

// Clone returns an independent copy of p.
func (p *Path) Clone() *Path {
	p.mu.Lock()
	defer p.mu.Unlock()

	return &Path{
		seq:         pathSeq.Add(1),
		tiles:       append([]Point(nil), p.tiles...),
		length:      p.length,
		lengthKnown: p.lengthKnown,
	}
}

// Start returns the first tile.
func (p *Path) Start() (Point, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.tiles) == 0 {
		return Point{}, false
	}
	return p.tiles[0], true
}

// End returns the last tile.
func (p *Path) End() (Point, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.tiles) == 0 {
		return Point{}, false
	}
	return p.tiles[len(p.tiles)-1], true
}

// Tiles returns a copy of the tile list.
func (p *Path) Tiles() []Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Point(nil), p.tiles...)
}

// Len is the number of tiles.
func (p *Path) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tiles)
}

// Steps is the number of moves, one less than Len. Empty paths have none.
func (p *Path) Steps() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.tiles) == 0 {
		return 0
	}
	return len(p.tiles) - 1
}

// Length returns the cumulative length and whether it is known. Smoothing
// makes it unknown until Measure is called.
func (p *Path) Length() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.length, p.lengthKnown
}

// Measure recomputes the length as the sum of straight-line distances
// between consecutive tiles and marks it known.
func (p *Path) Measure() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := 0.0
	for i := 1; i < len(p.tiles); i++ {
		total += stepCost(p.tiles[i-1], p.tiles[i])
	}
	p.length = total
	p.lengthKnown = true
	return total
}

func (p *Path) String() string {
	tiles := p.Tiles()
	var b strings.Builder
	for i, t := range tiles {
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(t.String())
	}
	return b.String()
}
