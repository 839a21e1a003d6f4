package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreAndGet(t *testing.T) {
	r := New(nil)
	r.Store("access_token", "ya29.secret")

	value, ok := r.Get("access_token")
	assert.True(t, ok)
	assert.Equal(t, "ya29.secret", value)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestStoreMultiple(t *testing.T) {
	r := New(nil)
	r.StoreMultiple(map[string]string{
		"access_token": "ya29.secret",
		"webhook_key":  "whk",
	})

	assert.True(t, r.Has("access_token"))
	assert.True(t, r.Has("webhook_key"))
	assert.Equal(t, []string{"access_token", "webhook_key"}, r.Names())
}

func TestOverwrite(t *testing.T) {
	r := New(nil)
	r.Store("access_token", "old")
	r.Store("access_token", "new")

	value, _ := r.Get("access_token")
	assert.Equal(t, "new", value)
}

func TestClear(t *testing.T) {
	r := New(nil)
	r.Store("access_token", "ya29.secret")
	r.Clear()

	assert.False(t, r.Has("access_token"))
	assert.Empty(t, r.Names())
}
