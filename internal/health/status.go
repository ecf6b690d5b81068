package health

import (
	"sort"
	"sync"
	"time"
)

// Status is one probe observation for an upstream service.
type Status struct {
	Service   string    `json:"service"`
	Healthy   bool      `json:"healthy"`
	Detail    string    `json:"detail,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// statusLog is a concurrency-safe in-memory history of probe observations,
// bounded per service.
type statusLog struct {
	mu sync.RWMutex

	// key: service name, value: observations in probe order
	data map[string][]Status

	maxHistory int
}

func newStatusLog(maxHistory int) *statusLog {
	return &statusLog{
		data:       make(map[string][]Status),
		maxHistory: maxHistory,
	}
}

func (l *statusLog) append(st Status) {
	l.mu.Lock()
	defer l.mu.Unlock()

	history := append(l.data[st.Service], st)
	if l.maxHistory > 0 && len(history) > l.maxHistory {
		over := len(history) - l.maxHistory
		history = history[over:]
	}
	l.data[st.Service] = history
}

// Latest returns the most recent observation for a service.
func (l *statusLog) Latest(service string) (Status, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	history := l.data[service]
	if len(history) == 0 {
		return Status{}, false
	}
	return history[len(history)-1], true
}

// Snapshot returns the latest observation per service, ordered by name.
func (l *statusLog) Snapshot() []Status {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Status, 0, len(l.data))
	for _, history := range l.data {
		if len(history) > 0 {
			out = append(out, history[len(history)-1])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Service < out[j].Service })
	return out
}
