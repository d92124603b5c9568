package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, ok, err := s.Get(ctx, "resumeData")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "resumeData", "v1"))
	require.NoError(t, s.Set(ctx, "resumeData", "v2"))
	v, ok, err := s.Get(ctx, "resumeData")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "resumeData"))
	require.NoError(t, s.Delete(ctx, "resumeData"), "deleting twice is fine")
	_, ok, err = s.Get(ctx, "resumeData")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStore_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Set(ctx, fmt.Sprintf("k%d", i%5), fmt.Sprint(i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, s.Len())
}
