package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type summary struct {
	Total     int
	Breakdown map[string]int
}

func TestMemoryCache(t *testing.T) {
	value := summary{
		Total:     3,
		Breakdown: map[string]int{"click": 2, "view": 1},
	}
	var result summary

	c := NewMemoryCache(1 * 1024 * 1024)

	err := c.Set("key", value, 1*time.Second)
	assert.NoError(t, err)

	err = c.Get("key", &result)
	assert.NoError(t, err)
	assert.Equal(t, value, result)

	assert.NoError(t, c.Delete("key"))
	assert.Error(t, c.Get("key", &result))
}

func TestFetch(t *testing.T) {
	c := NewMemoryCache(1 * 1024 * 1024)

	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := Fetch(c, "answer", time.Minute, load)
	assert.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = Fetch(c, "answer", time.Minute, load)
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "dashboard:u1", KeyDashboard("u1"))
	assert.Equal(t, "a:1:true", Key("a", 1, true))
}
