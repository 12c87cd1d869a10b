package payload

import (
	"net/url"
	"strings"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
)

// scanMailto splits a mailto: URI into address, subject and body. The
// address is everything up to the first '?'. Subject and body are taken from
// the first non-empty parameter of that name and percent-decoded; a value
// that fails to decode is kept raw.
func scanMailto(raw string) (model.EmailDraft, bool) {
	if !strings.HasPrefix(raw, mailtoPrefix) {
		return model.EmailDraft{}, false
	}

	address, query, _ := strings.Cut(raw[len(mailtoPrefix):], "?")
	draft := model.EmailDraft{Address: address}

	for _, pair := range strings.Split(query, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || value == "" {
			continue
		}
		switch strings.ToLower(key) {
		case "subject":
			setOnce(&draft.Subject, decodeComponent(value))
		case "body":
			setOnce(&draft.Body, decodeComponent(value))
		}
	}
	return draft, true
}

// decodeComponent percent-decodes s without treating '+' as a space.
func decodeComponent(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
