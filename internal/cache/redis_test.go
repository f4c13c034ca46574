package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient("redis://:pw@cache.local:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache.local:6380", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)
	assert.Equal(t, "pw", client.Options().Password)

	client, err = NewRedisClient("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", client.Options().Addr)

	_, err = NewRedisClient("redis://host:port:bad/x")
	assert.Error(t, err)
}

func TestAssessmentCache_UnavailableRedisIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewAssessmentCache(client, zap.NewNop())
	ctx := context.Background()

	c.Set(ctx, "k", []*model.PublicAssessment{{ID: 1}})
	items, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Nil(t, items)

	c.Invalidate(ctx)
}

func TestAssessmentCache_KeyIncludesVersion(t *testing.T) {
	c := &AssessmentCache{}
	assert.Equal(t, "assessments:v3:type:-:course:-", c.key("3", "type:-:course:-"))
	assert.NotEqual(t, c.key("3", "x"), c.key("4", "x"))
}
