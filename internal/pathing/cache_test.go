package pathing

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathCacheLookup(t *testing.T) {
	c := NewPathCache()
	p := NewPath(Pt(0, 0), Pt(1, 0), Pt(2, 1))
	c.Put(1, 2, p)

	got, src := c.lookup(1, 2)
	require.NotNil(t, got)
	assert.Equal(t, SourceCacheForward, src)
	assert.Same(t, p, got)

	got, src = c.lookup(2, 1)
	require.NotNil(t, got)
	assert.Equal(t, SourceCacheReverse, src)
	assert.Equal(t, []Point{Pt(2, 1), Pt(1, 0), Pt(0, 0)}, got.Tiles())

	got, src = c.lookup(1, 3)
	assert.Nil(t, got)
	assert.Equal(t, SourceNone, src)
}

func TestPathCacheLenAndClear(t *testing.T) {
	c := NewPathCache()
	c.Put(1, 2, NewPath(Pt(0, 0)))
	c.Put(1, 2, NewPath(Pt(1, 1)))
	c.Put(2, 1, NewPath(Pt(2, 2)))
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
	_, ok := c.Get(1, 2)
	assert.False(t, ok)
}

func TestPathCacheCollapsesConcurrentMisses(t *testing.T) {
	const callers = 8
	c := NewPathCache()
	release := make(chan struct{})
	var calls atomic.Int32

	var wg sync.WaitGroup
	var started sync.WaitGroup
	sources := make([]Source, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		started.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Done()
			r, src := c.do(4, 5, func() (route, Source) {
				calls.Add(1)
				<-release
				return foundRoute(NewPath(Pt(0, 0))), SourceSearch
			})
			assert.Equal(t, Found, r.outcome)
			sources[i] = src
		}(i)
	}

	// Every caller is parked on the first one's search before it finishes.
	started.Wait()
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load(), "one search serves every waiting caller")

	var searched, shared int
	for _, src := range sources {
		switch src {
		case SourceSearch:
			searched++
		case SourceShared:
			shared++
		}
	}
	assert.Equal(t, 1, searched)
	assert.Equal(t, callers-1, shared)
}

func TestPathCacheDoKeysAreOrdered(t *testing.T) {
	c := NewPathCache()
	var calls int
	fn := func() (route, Source) {
		calls++
		return noRoute(NoPath), SourceSearch
	}

	_, src := c.do(1, 2, fn)
	assert.Equal(t, SourceSearch, src)
	_, src = c.do(2, 1, fn)
	assert.Equal(t, SourceSearch, src)
	assert.Equal(t, 2, calls)
}
