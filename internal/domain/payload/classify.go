// Package payload classifies raw decoded text into structured payload kinds
// and encodes generator drafts back into text payloads.
//
// Classification is presence-based and tolerant: each kind has a small field
// scanner that extracts whatever it can and leaves the rest absent. Input is
// never rejected; anything unrecognized is PlainText.
package payload

import (
	"net/url"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
)

const (
	vcardMarker  = "BEGIN:VCARD"
	mailtoPrefix = "mailto:"
	linkPrefix   = "http"
)

// Classify determines the kind of raw and extracts its fields. Rules are tried
// in a fixed priority (WiFi, contact, email, link) and the first match wins.
func Classify(raw string) model.ClassifiedPayload {
	if wifi, ok := scanWiFi(raw); ok {
		return wifi
	}
	if contact, ok := scanVCard(raw); ok {
		return contact
	}
	if email, ok := scanMailto(raw); ok {
		return email
	}
	if strings.HasPrefix(raw, linkPrefix) {
		return newWebLink(raw)
	}
	return model.PlainText{Text: raw}
}

// PrimaryAction returns the action offered for raw: links are opened,
// everything else is copied.
func PrimaryAction(raw string) model.Action {
	if strings.HasPrefix(raw, linkPrefix) {
		return model.ActionOpen
	}
	return model.ActionCopy
}

func newWebLink(raw string) model.WebLink {
	link := model.WebLink{URL: raw}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return link
	}
	link.Host = u.Hostname()
	if domain, err := publicsuffix.Domain(link.Host); err == nil {
		link.Domain = domain
	}
	return link
}
