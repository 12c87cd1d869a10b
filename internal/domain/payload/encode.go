package payload

import (
	"fmt"
	"strings"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
)

// Encode serializes a generator draft into the text payload for its kind. URL
// and TEXT drafts are emitted unchanged. Unknown kinds encode to "".
func Encode(d model.GeneratorDraft) string {
	switch d.Kind {
	case model.DraftKindURL, model.DraftKindText:
		return d.Text
	case model.DraftKindWiFi:
		return EncodeWiFi(d.WiFi)
	case model.DraftKindContact:
		return EncodeContact(d.Contact)
	case model.DraftKindEmail:
		return EncodeEmail(d.Email)
	default:
		return ""
	}
}

// EncodeWiFi produces WIFI:S:<ssid>;T:<enc>;P:<password>;H:<hidden>;; with
// backslash, semicolon and colon escaped in the SSID and password. An empty
// encryption is written as WPA.
func EncodeWiFi(f model.WiFiFields) string {
	enc := f.Encryption
	if enc == "" {
		enc = model.WiFiEncryptionWPA
	}
	return fmt.Sprintf("WIFI:S:%s;T:%s;P:%s;H:%t;;", escapeWiFi(f.SSID), enc, escapeWiFi(f.Password), f.Hidden)
}

// EncodeContact produces a fixed-layout vCard 3.0 block. Field values are
// written verbatim.
// TODO: escape ',', ';' and newlines in free-text fields once readers that
// rely on the unescaped form have been checked.
func EncodeContact(f model.ContactFields) string {
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"N:" + f.LastName + ";" + f.FirstName + ";;;",
		"FN:" + f.FirstName + " " + f.LastName,
		"ORG:" + f.Org,
		"TEL;TYPE=CELL:" + f.Phone,
		"EMAIL:" + f.Email,
		"END:VCARD",
	}
	return strings.Join(lines, "\n")
}

// EncodeEmail produces mailto:<to>?subject=<subject>&body=<body> with subject
// and body percent-encoded. Both parameters are always present.
func EncodeEmail(f model.EmailFields) string {
	return "mailto:" + f.To + "?subject=" + encodeComponent(f.Subject) + "&body=" + encodeComponent(f.Body)
}

// HasContent reports whether d carries enough input to be worth encoding. It
// gates generate and export actions and is not a validity check.
func HasContent(d model.GeneratorDraft) bool {
	switch d.Kind {
	case model.DraftKindURL, model.DraftKindText:
		return notBlank(d.Text)
	case model.DraftKindWiFi:
		return notBlank(d.WiFi.SSID)
	case model.DraftKindContact:
		return notBlank(d.Contact.FirstName) || notBlank(d.Contact.Org)
	case model.DraftKindEmail:
		return notBlank(d.Email.To)
	default:
		return false
	}
}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

func escapeWiFi(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', ';', ':':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// encodeComponent percent-encodes every byte outside A-Z a-z 0-9 and
// - _ . ! ~ * ' ( ), the same set browsers leave untouched in URI components.
func encodeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
