// Package templates holds the templ components that make up the web GUI.
// Run `go tool templ generate` after editing a .templ file.
package templates

// Page describes the chrome around a page body.
type Page struct {
	Title  string
	Active string // nav entry to highlight: "scan", "history" or "generate"
	// RefreshSeconds, when positive, reloads the page periodically.
	RefreshSeconds int
}

var navEntries = []struct{ key, href, label string }{
	{"scan", "/", "Scan"},
	{"history", "/app/history", "History"},
	{"generate", "/app/generate", "Create"},
}
