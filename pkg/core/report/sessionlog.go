package report

import (
	"sync"
	"time"
)

// SessionEntry records one prompt/response exchange with the generative API.
type SessionEntry struct {
	Tag       string    `json:"tag"` // e.g. "FinancialAnalysis.draft"
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionLog is the process-lifetime record of every exchange. It is never
// persisted; restarting the service clears it.
type SessionLog struct {
	mu      sync.RWMutex
	entries []SessionEntry
}

func NewSessionLog() *SessionLog {
	return &SessionLog{}
}

func (l *SessionLog) Append(tag, prompt, response string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, SessionEntry{
		Tag:       tag,
		Prompt:    prompt,
		Response:  response,
		Timestamp: time.Now(),
	})
}

// Entries returns a copy of the log in append order.
func (l *SessionLog) Entries() []SessionEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]SessionEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *SessionLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
