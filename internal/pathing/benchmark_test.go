package pathing

import (
	"math/rand"
	"testing"
)

// benchmarkMap is a 100x100 map with scattered walls.
func benchmarkMap(b *testing.B) *Pathfinder {
	b.Helper()
	m := openMap(100, 100)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1500; i++ {
		m.Collision().Place(rng.Intn(100), rng.Intn(100))
	}
	return build(b, m)
}

func BenchmarkBuild(b *testing.B) {
	m := openMap(100, 100)
	wall(m, 30, 0, 30, 80)
	wall(m, 60, 20, 60, 99)
	pf := newTestPathfinder()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := pf.Build(m); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFindPathCached(b *testing.B) {
	pf := benchmarkMap(b)
	from, to := Pt(1, 1), Pt(98, 98)
	for !pf.Grid().Walkable(from.X, from.Y) {
		from.X++
	}
	for !pf.Grid().Walkable(to.X, to.Y) {
		to.X--
	}
	pf.FindPath(from, to)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pf.FindPath(from, to)
	}
}

func BenchmarkFindPathParallel(b *testing.B) {
	pf := benchmarkMap(b)
	grid := pf.Grid()

	b.RunParallel(func(pb *testing.PB) {
		rng := rand.New(rand.NewSource(7))
		for pb.Next() {
			from := Pt(rng.Intn(100), rng.Intn(100))
			to := Pt(rng.Intn(100), rng.Intn(100))
			if !grid.Walkable(from.X, from.Y) || !grid.Walkable(to.X, to.Y) {
				continue
			}
			pf.FindPath(from, to)
		}
	})
}

func BenchmarkSearchTiles(b *testing.B) {
	pf := benchmarkMap(b)
	window := rect{min: Pt(0, 0), w: 10, h: 10}
	for i := 0; i < b.N; i++ {
		searchTiles(pf.Grid(), window, Pt(0, 0), Pt(9, 9))
	}
}
