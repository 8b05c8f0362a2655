package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultLedgerSize = 100

// Commit records one generation that went through the committing path. The
// generated images themselves are never kept.
type Commit struct {
	ID       string    `json:"id"`
	Seq      uint64    `json:"seq"`
	InputLen int       `json:"input_len"`
	Frames   int       `json:"frames"`
	At       time.Time `json:"at"`
}

// Stats summarises the ledger.
type Stats struct {
	Commits uint64 `json:"commits"`
	Last    string `json:"last,omitempty"`
}

// Ledger is an in-memory, bounded log of committed generations.
type Ledger struct {
	mu     sync.Mutex
	seq    uint64
	recent []Commit
	limit  int
	now    func() time.Time
}

// NewLedger keeps the last limit commits.
func NewLedger(limit int) *Ledger {
	if limit <= 0 {
		limit = defaultLedgerSize
	}
	return &Ledger{limit: limit, now: time.Now}
}

// Record appends a commit and returns it.
func (l *Ledger) Record(inputLen, frames int) Commit {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	c := Commit{
		ID:       uuid.NewString(),
		Seq:      l.seq,
		InputLen: inputLen,
		Frames:   frames,
		At:       l.now().UTC(),
	}
	l.recent = append(l.recent, c)
	if len(l.recent) > l.limit {
		l.recent = l.recent[len(l.recent)-l.limit:]
	}
	return c
}

// Stats returns the commit count and the newest id.
func (l *Ledger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := Stats{Commits: l.seq}
	if n := len(l.recent); n > 0 {
		s.Last = l.recent[n-1].ID
	}
	return s
}

// Recent returns a copy of the retained commits, oldest first.
func (l *Ledger) Recent() []Commit {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Commit, len(l.recent))
	copy(out, l.recent)
	return out
}
