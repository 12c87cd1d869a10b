// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
	"github.com/ericfisherdev/scanmaster/internal/domain/payload"
	"github.com/ericfisherdev/scanmaster/internal/domain/port/driven"
)

// Annotations stored when the summarizer cannot deliver a summary.
const (
	EmptyAnnotation    = "Unable to analyze content."
	FallbackAnnotation = "AI analysis unavailable at the moment."
	TimeoutAnnotation  = "AI analysis timed out."
)

// SessionOptions tunes a ScanSession. Zero values select the defaults.
type SessionOptions struct {
	// DebounceWindow bounds how long a repeated decode of the displayed
	// payload is suppressed. Zero suppresses for as long as it is displayed.
	DebounceWindow time.Duration
	// SummaryTimeout bounds each summarization call. Zero means no bound.
	SummaryTimeout time.Duration
	// Now and NewID are replaced in tests.
	Now   func() time.Time
	NewID func() string
}

// ScanSession turns decode events into history records and attaches an AI
// annotation to each new record in the background.
//
// All state transitions go through Reduce under a single mutex, so the
// session can be driven from concurrent HTTP handlers.
type ScanSession struct {
	mu    sync.Mutex
	state SessionState

	history    *HistoryStore
	summarizer driven.Summarizer
	previewer  driven.LinkPreviewer
	opts       SessionOptions
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScanSession creates a session over history. summarizer and previewer may
// be nil; without a summarizer new records are never annotated.
func NewScanSession(
	history *HistoryStore,
	summarizer driven.Summarizer,
	previewer driven.LinkPreviewer,
	opts SessionOptions,
	logger *slog.Logger,
) *ScanSession {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ScanSession{
		state:      SessionState{Pending: map[string]struct{}{}},
		history:    history,
		summarizer: summarizer,
		previewer:  previewer,
		opts:       opts,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// RecordScan handles one decode event. When raw repeats the record on display
// it returns that record and false. Otherwise it appends a new record to the
// history, makes it current, starts its summarization and returns it with
// true.
func (s *ScanSession) RecordScan(ctx context.Context, raw string, meta model.DecoderMetadata) (model.ScanRecord, bool) {
	s.mu.Lock()
	now := s.opts.Now()

	if ShouldSuppress(s.state, raw, now, s.opts.DebounceWindow) {
		s.state = Reduce(s.state, DecodeSuppressed{At: now})
		rec := *s.state.Current
		s.mu.Unlock()
		return rec, false
	}

	rec := model.NewScanRecord(s.opts.NewID(), raw, meta.Kind(), now)
	if err := s.history.Append(ctx, rec); err != nil {
		s.logger.Error("failed to persist scan", "id", rec.ID, "error", err)
	}

	annotate := s.summarizer != nil
	s.state = Reduce(s.state, ScanDecoded{Record: rec, At: now, AwaitingAnnotation: annotate})
	if annotate {
		s.wg.Add(1)
	}
	s.mu.Unlock()

	s.logger.Info("scan recorded", "id", rec.ID, "kind", rec.Kind, "payload_kind", payload.Classify(raw).Kind())

	if annotate {
		go s.annotate(rec)
	}
	return rec, true
}

// Current returns the record on display, if any.
func (s *ScanSession) Current() (model.ScanRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Current == nil {
		return model.ScanRecord{}, false
	}
	return *s.state.Current, true
}

// State returns a copy of the session state.
func (s *ScanSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Reduce(s.state, nil)
}

// IsPending reports whether the annotation for id is still outstanding.
func (s *ScanSession) IsPending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsPending(id)
}

// Select puts the history entry with the given id on display.
func (s *ScanSession) Select(id string) (model.ScanRecord, bool) {
	rec, ok := s.history.Get(id)
	if !ok {
		return model.ScanRecord{}, false
	}
	s.mu.Lock()
	s.state = Reduce(s.state, RecordSelected{Record: rec, At: s.opts.Now()})
	s.mu.Unlock()
	return rec, true
}

// Dismiss closes the record on display so the same code can be scanned again.
func (s *ScanSession) Dismiss() {
	s.mu.Lock()
	s.state = Reduce(s.state, ResultDismissed{})
	s.mu.Unlock()
}

// Delete removes one record from the history. No-op if absent.
func (s *ScanSession) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, RecordDeleted{ID: id})
	return s.history.Remove(ctx, id)
}

// Clear empties the history and closes the record on display.
func (s *ScanSession) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, HistoryCleared{})
	return s.history.Clear(ctx)
}

// History returns the scan history, newest first.
func (s *ScanSession) History() []model.ScanRecord {
	return s.history.List()
}

// Record returns one history entry by id.
func (s *ScanSession) Record(id string) (model.ScanRecord, bool) {
	return s.history.Get(id)
}

// Wait blocks until every in-flight summarization has finished or ctx is done.
func (s *ScanSession) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels in-flight summarizations. Their results are discarded.
func (s *ScanSession) Close() {
	s.cancel()
}

func (s *ScanSession) annotate(rec model.ScanRecord) {
	defer s.wg.Done()

	ctx := s.ctx
	if s.opts.SummaryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.SummaryTimeout)
		defer cancel()
	}

	req := driven.SummaryRequest{Content: rec.Payload, KindHint: rec.Kind}
	if link, ok := payload.Classify(rec.Payload).(model.WebLink); ok && s.previewer != nil && link.Host != "" {
		title, err := s.previewer.Title(ctx, link.URL)
		if err != nil {
			s.logger.Debug("link preview failed", "id", rec.ID, "error", err)
		}
		req.PageTitle = title
	}

	text, err := s.summarizer.Summarize(ctx, req)
	if s.ctx.Err() != nil {
		s.logger.Debug("session closed, dropping annotation", "id", rec.ID)
		return
	}
	text = annotationFor(text, err)
	if err != nil {
		s.logger.Warn("summarization failed", "id", rec.ID, "error", err)
	}

	if err := s.history.UpdateAnnotation(context.Background(), rec.ID, text); err != nil {
		s.logger.Error("failed to persist annotation", "id", rec.ID, "error", err)
	}

	s.mu.Lock()
	s.state = Reduce(s.state, AnnotationReady{ID: rec.ID, Text: text})
	s.mu.Unlock()
}

// annotationFor maps a summarizer result onto the text stored on the record.
func annotationFor(text string, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return TimeoutAnnotation
	case err != nil:
		return FallbackAnnotation
	case strings.TrimSpace(text) == "":
		return EmptyAnnotation
	default:
		return strings.TrimSpace(text)
	}
}
