package driven

import "context"

// LinkPreviewer defines the driven port for looking up the title of a web
// page referenced by a scanned link.
type LinkPreviewer interface {
	// Title returns the page title, or "" when the page has none.
	Title(ctx context.Context, rawURL string) (string, error)
}
