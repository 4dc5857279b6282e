package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetThenGet(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("k", "v")

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestGetMissing(t *testing.T) {
	c := New[int](time.Minute)

	got, ok := c.Get("absent")
	assert.False(t, ok)
	assert.Zero(t, got)
}

func TestExpiry(t *testing.T) {
	c := New[string](10 * time.Millisecond)
	c.Set("k", "v")

	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.False(t, c.Has("k"))
	// Lazy eviction removed the entry on read.
	assert.Equal(t, 0, c.Len())
}

func TestHas(t *testing.T) {
	c := New[[]string](time.Minute)
	assert.False(t, c.Has("k"))

	c.Set("k", []string{"a"})
	assert.True(t, c.Has("k"))
}

func TestOverwrite(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("k", "old")
	c.Set("k", "new")

	got, _ := c.Get("k")
	assert.Equal(t, "new", got)
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute)
	done := make(chan struct{})

	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				c.Set("shared", n)
				c.Get("shared")
				c.Has("shared")
			}
		}(i)
	}

	for i := 0; i < 8; i++ {
		<-done
	}
}
