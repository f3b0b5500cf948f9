package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetOrCreateBuildsOnce(t *testing.T) {
	r := New()

	builds := 0
	build := func() any {
		builds++
		return "instance"
	}

	first := r.GetOrCreate("component", build)
	second := r.GetOrCreate("component", build)

	assert.Equal(t, "instance", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, builds)
}

func TestGetOrCreateSeparateIDs(t *testing.T) {
	r := New()

	a := r.GetOrCreate("a", func() any { return 1 })
	b := r.GetOrCreate("b", func() any { return 2 })

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.True(t, r.Registered("a"))
	assert.False(t, r.Registered("c"))
}

func TestReset(t *testing.T) {
	r := New()

	builds := 0
	build := func() any {
		builds++
		return builds
	}

	r.GetOrCreate("component", build)
	r.Reset()
	assert.False(t, r.Registered("component"))

	got := r.GetOrCreate("component", build)
	assert.Equal(t, 2, got)
}

func TestGetOrCreateConcurrent(t *testing.T) {
	r := New()

	var mu sync.Mutex
	builds := 0

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.GetOrCreate("shared", func() any {
				mu.Lock()
				builds++
				mu.Unlock()
				return "shared-instance"
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, builds)
	assert.Equal(t, "shared-instance", r.GetOrCreate("shared", func() any { return "other" }))
}
