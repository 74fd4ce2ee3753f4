package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestURLCache_TTL(t *testing.T) {
	const ttl = 50 * time.Millisecond

	c := NewURLCache(ttl)
	key := Key("img", "rec1", 0)

	c.Put(key, "https://dl.example.com/a.png")

	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, "https://dl.example.com/a.png", got)

	time.Sleep(3 * ttl)

	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestURLCache_LastWriterWins(t *testing.T) {
	c := NewURLCache(time.Minute)
	key := Key("image", "rec2", 3)

	c.Put(key, "https://dl.example.com/old.png")
	c.Put(key, "https://dl.example.com/new.png")

	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, "https://dl.example.com/new.png", got)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "img:rec1:2", Key("img", "rec1", 2))
	assert.NotEqual(t, Key("img", "rec1", 2), Key("image", "rec1", 2))
}
