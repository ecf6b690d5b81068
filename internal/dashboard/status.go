package dashboard

import (
	"sync"
	"time"
)

// DefaultStatusTTL is how long a transient save confirmation stays visible
// before it clears itself.
const DefaultStatusTTL = 3 * time.Second

// statusLine holds a transient user-facing message that self-clears after a
// fixed delay. Setting a new message restarts the clock. Expiry is checked by
// generation rather than by stopping the old timer: a timer that already
// fired while set held the lock would otherwise clear the new message.
type statusLine struct {
	mu  sync.Mutex
	ttl time.Duration
	msg string
	gen uint64
}

func newStatusLine(ttl time.Duration) *statusLine {
	if ttl <= 0 {
		ttl = DefaultStatusTTL
	}
	return &statusLine{ttl: ttl}
}

func (s *statusLine) set(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.msg = msg
	s.gen++
	gen := s.gen
	time.AfterFunc(s.ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen == s.gen {
			s.msg = ""
		}
	})
}

func (s *statusLine) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msg
}
