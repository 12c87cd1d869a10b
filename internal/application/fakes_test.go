package application_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
	"github.com/ericfisherdev/scanmaster/internal/domain/port/driven"
)

// memSnapshots is an in-memory driven.HistorySnapshotStore.
type memSnapshots struct {
	mu      sync.Mutex
	records []model.ScanRecord
	loadErr error
	saveErr error
	saves   int
}

func (m *memSnapshots) Load(_ context.Context) ([]model.ScanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]model.ScanRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memSnapshots) Save(_ context.Context, records []model.ScanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = make([]model.ScanRecord, len(records))
	copy(m.records, records)
	return nil
}

func (m *memSnapshots) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// stubSummarizer returns a fixed result, or "summary: <content>" when echo is
// set. When release is non-nil each call blocks until a value is received or
// the context is done.
type stubSummarizer struct {
	mu       sync.Mutex
	text     string
	echo     bool
	err      error
	release  chan struct{}
	requests []driven.SummaryRequest
}

func (s *stubSummarizer) Summarize(ctx context.Context, req driven.SummaryRequest) (string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	release := s.release
	s.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.echo {
		return "summary: " + req.Content, s.err
	}
	return s.text, s.err
}

func (s *stubSummarizer) calls() []driven.SummaryRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]driven.SummaryRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// stubPreviewer returns a fixed page title.
type stubPreviewer struct {
	title string
	err   error
}

func (p *stubPreviewer) Title(_ context.Context, _ string) (string, error) {
	return p.title, p.err
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sequentialIDs returns "scan-1", "scan-2", ...
func sequentialIDs() func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("scan-%d", n)
	}
}
