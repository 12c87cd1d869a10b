package driven

import (
	"context"
	"errors"
)

// ErrSummarizerUnavailable is returned when the remote service could not
// produce a summary (transport failure, non-2xx status, blocked content).
var ErrSummarizerUnavailable = errors.New("summarizer unavailable")

// SummaryRequest is the input to a single summarization call.
type SummaryRequest struct {
	Content  string
	KindHint string
	// PageTitle is the fetched title of a scanned link, when known.
	PageTitle string
}

// Summarizer defines the driven port for the remote AI text-generation
// service. One request, one response; implementations do not retry.
type Summarizer interface {
	// Summarize returns a short description of the content. An empty string
	// with a nil error means the service answered with no text.
	Summarize(ctx context.Context, req SummaryRequest) (string, error)
}
