package memory

import (
	"time"

	"drive-assistant-be/pkg/assistant"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps live conversation state in memory. Sessions
// idle for an hour are evicted; the durable transcript lives in the
// database, this cache only carries the engine's working state.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(state *assistant.SessionState) {
	r.cache.Set(state.Id, state, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionId string) (*assistant.SessionState, bool) {
	if x, found := r.cache.Get(sessionId); found {
		return x.(*assistant.SessionState), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionId string) {
	r.cache.Delete(sessionId)
}

// ForUser returns every live session state owned by the user.
func (r *SessionRepository) ForUser(userId string) []*assistant.SessionState {
	var states []*assistant.SessionState
	for _, item := range r.cache.Items() {
		if state, ok := item.Object.(*assistant.SessionState); ok && state.UserId == userId {
			states = append(states, state)
		}
	}
	return states
}
