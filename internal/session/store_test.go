package session

import (
	"testing"
	"time"

	"pricecompare/domain/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewStore(ttl)
	s.now = clock.now
	return s, clock
}

func TestStoreSaveGet(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	id := NewID()
	require.True(t, ValidID(id))

	s.Save(&State{ID: id, Filename: "p.csv", Content: []byte("x"), Dealers: []string{"A", "B"}})

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "p.csv", got.Filename)
	assert.True(t, got.HasUpload())
	assert.Equal(t, []string{"A", "B"}, got.Dealers)

	_, ok = s.Get(NewID())
	assert.False(t, ok)
}

func TestStoreReturnsCopies(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	s.Save(&State{ID: "a", Dealers: []string{"A", "B"}, Quantities: pricing.Quantities{"P": 1}})

	got, _ := s.Get("a")
	got.Dealers[0] = "Z"
	got.Quantities["P"] = 99

	again, _ := s.Get("a")
	assert.Equal(t, "A", again.Dealers[0])
	assert.Equal(t, 1, again.Quantities["P"])
}

func TestStoreExpiry(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	s.Save(&State{ID: "old"})
	clock.advance(30 * time.Second)
	s.Save(&State{ID: "new"})
	clock.advance(45 * time.Second)

	_, ok := s.Get("old")
	assert.False(t, ok)
	_, ok = s.Get("new")
	assert.True(t, ok)

	assert.Equal(t, 1, s.CleanupExpired())
	assert.Equal(t, 1, s.Len())
}

func TestStoreDelete(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	s.Save(&State{ID: "a"})
	s.Delete("a")

	assert.Equal(t, 0, s.Len())
}

func TestValidID(t *testing.T) {
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("not-a-uuid"))
}
