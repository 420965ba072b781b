package console

import (
	"sync"
	"testing"
	"time"

	"github.com/rpupo63/blog-admin-console/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_SubscribeAndUnsubscribe(t *testing.T) {
	store := NewSessionStore()

	var seen []*models.Session
	unsubscribe := store.Subscribe(func(s *models.Session) { seen = append(seen, s) })

	session := activeSession("u1")
	store.Set(session)
	store.Clear()
	unsubscribe()
	store.Set(activeSession("u2"))

	require.Len(t, seen, 2)
	assert.Equal(t, session, seen[0])
	assert.Nil(t, seen[1])
}

func TestSessionStore_ClearWhenAbsentIsSilent(t *testing.T) {
	store := NewSessionStore()
	calls := 0
	store.Subscribe(func(*models.Session) { calls++ })

	store.Clear()

	assert.Zero(t, calls)
}

func TestSessionStore_ExpiredSessionIsAbsent(t *testing.T) {
	now := time.Now()
	store := NewSessionStore()
	store.now = func() time.Time { return now }

	store.Set(&models.Session{UserID: "u1", ExpiresAt: now.Add(time.Minute)})
	require.NotNil(t, store.Current())

	var published []*models.Session
	store.Subscribe(func(s *models.Session) { published = append(published, s) })

	now = now.Add(2 * time.Minute)
	assert.Nil(t, store.Current())
	require.Len(t, published, 1)
	assert.Nil(t, published[0])
}

func TestSessionStore_SetExpiredSessionClears(t *testing.T) {
	store := NewSessionStore()
	store.Set(activeSession("u1"))

	store.Set(&models.Session{UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)})

	assert.Nil(t, store.Current())
}

func TestSessionStore_ListenerMayReadStore(t *testing.T) {
	store := NewSessionStore()
	var current *models.Session
	store.Subscribe(func(*models.Session) { current = store.Current() })

	session := activeSession("u1")
	store.Set(session)

	assert.Equal(t, session, current)
}

func TestSessionStore_ChangeDuringDeliveryIsDeliveredLast(t *testing.T) {
	store := NewSessionStore()

	var mu sync.Mutex
	last := map[string]*models.Session{}
	record := func(name string) func(*models.Session) {
		return func(s *models.Session) {
			mu.Lock()
			last[name] = s
			mu.Unlock()
		}
	}
	store.Subscribe(record("first"))
	store.Subscribe(func(s *models.Session) {
		// a sign-out racing the sign-in being delivered
		if s != nil {
			store.Clear()
		}
	})
	store.Subscribe(record("second"))

	store.Set(activeSession("u1"))

	assert.Nil(t, store.Current())
	mu.Lock()
	defer mu.Unlock()
	require.Contains(t, last, "first")
	require.Contains(t, last, "second")
	assert.Nil(t, last["first"])
	assert.Nil(t, last["second"])
}

func TestSessionStore_ConcurrentChangesSettleOnCurrent(t *testing.T) {
	store := NewSessionStore()

	var mu sync.Mutex
	var last *models.Session
	delivered := false
	store.Subscribe(func(s *models.Session) {
		mu.Lock()
		last, delivered = s, true
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				store.Set(activeSession("u1"))
			} else {
				store.Clear()
			}
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if delivered {
		assert.Same(t, store.Current(), last)
	} else {
		assert.Nil(t, store.Current())
	}
}
