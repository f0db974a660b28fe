package intern

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternSameStringSameHandle(t *testing.T) {
	in := New()
	a := in.Intern("struct foo")
	b := in.Intern("struct foo")
	assert.Equal(t, a, b)
}

func TestInternDistinctStringsDistinctHandles(t *testing.T) {
	in := New()
	a := in.Intern("struct foo")
	b := in.Intern("struct bar")
	assert.NotEqual(t, a, b)
}

func TestResolveRoundTrip(t *testing.T) {
	in := New()
	names := []string{"alpha", "beta", "gamma", "s#my_struct", "E#my_export"}
	handles := make([]Handle, len(names))
	for i, n := range names {
		handles[i] = in.Intern(n)
	}
	for i, h := range handles {
		require.Equal(t, names[i], in.Resolve(h))
	}
}

func TestInternConcurrentSafe(t *testing.T) {
	in := New()
	var wg sync.WaitGroup
	results := make([][]Handle, 32)
	for w := 0; w < 32; w++ {
		wg.Add(1)
		results[w] = make([]Handle, 100)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				results[w][i] = in.Intern("shared-name")
			}
		}(w)
	}
	wg.Wait()
	first := results[0][0]
	for _, row := range results {
		for _, h := range row {
			assert.Equal(t, first, h)
		}
	}
}
