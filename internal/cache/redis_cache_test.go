package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megahal/internal/config"
)

func TestNewWithoutAddrReturnsNilNoop(t *testing.T) {
	c, err := New(config.CacheConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNilCacheGetIsAlwaysMiss(t *testing.T) {
	var c *ReplyCache
	_, ok := c.Get(context.Background(), "HELLO.", 5, 4)
	assert.False(t, ok)
}

func TestNilCacheSetIsNoop(t *testing.T) {
	var c *ReplyCache
	assert.NoError(t, c.Set(context.Background(), "HELLO.", 5, 4, "Hi there."))
}

func TestNilCacheCloseIsNoop(t *testing.T) {
	var c *ReplyCache
	assert.NoError(t, c.Close())
}

func TestReplyKeyIncludesOrderAndCandidates(t *testing.T) {
	k1 := replyKey("HELLO.", 5, 4)
	k2 := replyKey("HELLO.", 3, 4)
	assert.NotEqual(t, k1, k2)
}
