package application

import (
	"time"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
)

// SessionState is the view state of a scanning session: the record currently
// on display and the records whose annotation is still outstanding.
type SessionState struct {
	Current      *model.ScanRecord
	LastDecodeAt time.Time
	Pending      map[string]struct{}
}

// IsPending reports whether an annotation for id is outstanding.
func (s SessionState) IsPending(id string) bool {
	_, ok := s.Pending[id]
	return ok
}

// Event is an input to Reduce.
type Event interface {
	sessionEvent()
}

// ScanDecoded records that a new record was created from a decode event.
type ScanDecoded struct {
	Record model.ScanRecord
	At     time.Time
	// AwaitingAnnotation marks the record as pending summarization.
	AwaitingAnnotation bool
}

// DecodeSuppressed records a decode of the payload already on display.
type DecodeSuppressed struct {
	At time.Time
}

// AnnotationReady delivers the summarization result for a record.
type AnnotationReady struct {
	ID   string
	Text string
}

// RecordDeleted records the removal of one history entry.
type RecordDeleted struct {
	ID string
}

// HistoryCleared records that the whole history was emptied.
type HistoryCleared struct{}

// RecordSelected puts a history entry on display.
type RecordSelected struct {
	Record model.ScanRecord
	At     time.Time
}

// ResultDismissed closes the record on display.
type ResultDismissed struct{}

func (ScanDecoded) sessionEvent()      {}
func (DecodeSuppressed) sessionEvent() {}
func (AnnotationReady) sessionEvent()  {}
func (RecordDeleted) sessionEvent()    {}
func (HistoryCleared) sessionEvent()   {}
func (RecordSelected) sessionEvent()   {}
func (ResultDismissed) sessionEvent()  {}

// Reduce returns the state that follows s after e. It never modifies s.
func Reduce(s SessionState, e Event) SessionState {
	next := SessionState{
		Current:      s.Current,
		LastDecodeAt: s.LastDecodeAt,
		Pending:      copyPending(s.Pending),
	}

	switch ev := e.(type) {
	case ScanDecoded:
		rec := ev.Record
		next.Current = &rec
		next.LastDecodeAt = ev.At
		if ev.AwaitingAnnotation {
			next.Pending[rec.ID] = struct{}{}
		}
	case DecodeSuppressed:
		next.LastDecodeAt = ev.At
	case AnnotationReady:
		delete(next.Pending, ev.ID)
		if s.Current != nil && s.Current.ID == ev.ID {
			rec := s.Current.WithAnnotation(ev.Text)
			next.Current = &rec
		}
	case RecordDeleted:
		delete(next.Pending, ev.ID)
		if s.Current != nil && s.Current.ID == ev.ID {
			next.Current = nil
		}
	case HistoryCleared:
		next.Current = nil
		next.Pending = map[string]struct{}{}
	case RecordSelected:
		rec := ev.Record
		next.Current = &rec
		next.LastDecodeAt = ev.At
	case ResultDismissed:
		next.Current = nil
	}
	return next
}

// ShouldSuppress reports whether a decode of raw at now repeats the record on
// display. A decode is suppressed when the current record has the same
// payload and the previous decode or selection happened within window. A
// window <= 0 suppresses for as long as the record stays current.
func ShouldSuppress(s SessionState, raw string, now time.Time, window time.Duration) bool {
	if s.Current == nil || s.Current.Payload != raw {
		return false
	}
	if window <= 0 {
		return true
	}
	return now.Sub(s.LastDecodeAt) <= window
}

func copyPending(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for id := range in {
		out[id] = struct{}{}
	}
	return out
}
