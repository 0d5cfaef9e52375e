package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bidwriter/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(time.Hour)
	t.Cleanup(c.Close)
	return c
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value interface{}
		want  string
	}{
		{
			name:  "string",
			key:   "analysis:a",
			value: "web development",
			want:  `"web development"`,
		},
		{
			name: "analysis struct",
			key:  "analysis:b",
			value: domain.ProjectAnalysis{
				ProjectType:     "API integration",
				RequiredSkills:  []string{"Go"},
				MatchedSkills:   []string{"Go"},
				SkillMatchScore: 100,
			},
			want: `{"project_type":"API integration","required_skills":["Go"],"key_requirements":null,"estimated_complexity":"","estimated_budget_range":"","deliverables":null,"special_notes":null,"matched_skills":["Go"],"skill_match_score":100}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, c.Set(ctx, tt.key, tt.value, time.Minute))

			got, err := c.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got.(json.RawMessage)))
		})
	}
}

func TestMemoryCache_Get_ReturnsCopy(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "value", time.Minute))

	first, err := c.Get(ctx, "k")
	require.NoError(t, err)
	raw := first.(json.RawMessage)
	raw[1] = 'X'

	second, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"value"`, string(second.(json.RawMessage)))
}

func TestMemoryCache_Set_UnencodableValue(t *testing.T) {
	c := newTestCache(t)

	err := c.Set(context.Background(), "bad", make(chan int), time.Minute)
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", "v", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	exists, err := c.Exists(ctx, "short")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryCache_Exists(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.Set(ctx, "k", 1, time.Minute))

	exists, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryCache_EvictExpired(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "live", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "dead", 2, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	c.evictExpired()

	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_EvictLoop(t *testing.T) {
	c := NewMemoryCache(5 * time.Millisecond)
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "dead", 1, time.Millisecond))

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemoryCache_CloseTwice(t *testing.T) {
	c := NewMemoryCache(0)

	assert.NotPanics(t, func() {
		c.Close()
		c.Close()
	})
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", id)
			assert.NoError(t, c.Set(ctx, key, id, time.Minute))
			_, err := c.Get(ctx, key)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, c.Len())
}
