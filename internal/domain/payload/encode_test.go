package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
)

func TestEncodeWiFi_EscapesSpecialCharacters(t *testing.T) {
	got := EncodeWiFi(model.WiFiFields{SSID: "a;b", Password: "p:q", Encryption: model.WiFiEncryptionWPA, Hidden: false})

	assert.Equal(t, `WIFI:S:a\;b;T:WPA;P:p\:q;H:false;;`, got)
}

func TestEncodeWiFi_BackslashAndHidden(t *testing.T) {
	got := EncodeWiFi(model.WiFiFields{SSID: `c:\net`, Password: "", Encryption: model.WiFiEncryptionNoPass, Hidden: true})

	assert.Equal(t, `WIFI:S:c\:\\net;T:nopass;P:;H:true;;`, got)
}

func TestEncodeWiFi_DefaultsEncryption(t *testing.T) {
	assert.Equal(t, "WIFI:S:x;T:WPA;P:y;H:false;;", EncodeWiFi(model.WiFiFields{SSID: "x", Password: "y"}))
}

func TestEncodeWiFi_RoundTrip(t *testing.T) {
	for _, f := range []model.WiFiFields{
		{SSID: "HomeNet", Password: "hunter2", Encryption: model.WiFiEncryptionWPA},
		{SSID: "Guest Wifi", Password: "with spaces", Encryption: model.WiFiEncryptionWEP, Hidden: true},
		{SSID: "x", Password: "", Encryption: model.WiFiEncryptionNoPass},
	} {
		got := Classify(EncodeWiFi(f))

		require.IsType(t, model.WifiConfig{}, got)
		wifi := got.(model.WifiConfig)
		assert.Equal(t, f.SSID, wifi.SSID)
		require.NotNil(t, wifi.Password)
		assert.Equal(t, f.Password, *wifi.Password)
		assert.Equal(t, f.Hidden, wifi.IsHidden())
	}
}

func TestEncodeContact(t *testing.T) {
	got := EncodeContact(model.ContactFields{FirstName: "Jane", LastName: "Doe", Phone: "555", Email: "j@d.io", Org: "Acme"})

	assert.Equal(t, "BEGIN:VCARD\nVERSION:3.0\nN:Doe;Jane;;;\nFN:Jane Doe\nORG:Acme\nTEL;TYPE=CELL:555\nEMAIL:j@d.io\nEND:VCARD", got)

	card, ok := Classify(got).(model.ContactCard)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", *card.Name)
	assert.Equal(t, "Acme", *card.Organization)
	assert.Equal(t, "555", *card.Phone)
	assert.Equal(t, "j@d.io", *card.Email)
	assert.Nil(t, card.URL)
}

func TestEncodeEmail(t *testing.T) {
	tests := []struct {
		name   string
		fields model.EmailFields
		want   string
	}{
		{
			name:   "encodes subject and body",
			fields: model.EmailFields{To: "bob@example.com", Subject: "Hi & bye", Body: "a b\nc"},
			want:   "mailto:bob@example.com?subject=Hi%20%26%20bye&body=a%20b%0Ac",
		},
		{
			name:   "empty parameters still emitted",
			fields: model.EmailFields{To: "bob@example.com"},
			want:   "mailto:bob@example.com?subject=&body=",
		},
		{
			name:   "unreserved marks untouched",
			fields: model.EmailFields{To: "x@y.z", Subject: "it's (ok)!*~"},
			want:   "mailto:x@y.z?subject=it's%20(ok)!*~&body=",
		},
		{
			name:   "utf-8 encoded per byte",
			fields: model.EmailFields{To: "x@y.z", Subject: "é"},
			want:   "mailto:x@y.z?subject=%C3%A9&body=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeEmail(tt.fields))
		})
	}
}

func TestEncodeEmail_RoundTrip(t *testing.T) {
	got := Classify(EncodeEmail(model.EmailFields{To: "bob@example.com", Subject: "Q3 report", Body: "See 50% & more"}))

	email, ok := got.(model.EmailDraft)
	require.True(t, ok)
	assert.Equal(t, "bob@example.com", email.Address)
	assert.Equal(t, "Q3 report", *email.Subject)
	assert.Equal(t, "See 50% & more", *email.Body)
}

func TestEncode_Identity(t *testing.T) {
	assert.Equal(t, "https://example.com", Encode(model.GeneratorDraft{Kind: model.DraftKindURL, Text: "https://example.com"}))
	assert.Equal(t, "  raw text ", Encode(model.GeneratorDraft{Kind: model.DraftKindText, Text: "  raw text "}))
	assert.Equal(t, "", Encode(model.GeneratorDraft{Kind: "BOGUS", Text: "x"}))
}

func TestHasContent(t *testing.T) {
	tests := []struct {
		name  string
		draft model.GeneratorDraft
		want  bool
	}{
		{"blank url", model.GeneratorDraft{Kind: model.DraftKindURL, Text: "   "}, false},
		{"url", model.GeneratorDraft{Kind: model.DraftKindURL, Text: "x"}, true},
		{"text", model.GeneratorDraft{Kind: model.DraftKindText, Text: "hello"}, true},
		{"wifi without ssid", model.GeneratorDraft{Kind: model.DraftKindWiFi, WiFi: model.WiFiFields{Password: "p"}}, false},
		{"wifi", model.GeneratorDraft{Kind: model.DraftKindWiFi, WiFi: model.WiFiFields{SSID: "n"}}, true},
		{"contact last name only", model.GeneratorDraft{Kind: model.DraftKindContact, Contact: model.ContactFields{LastName: "Doe"}}, false},
		{"contact first name", model.GeneratorDraft{Kind: model.DraftKindContact, Contact: model.ContactFields{FirstName: "Jane"}}, true},
		{"contact org", model.GeneratorDraft{Kind: model.DraftKindContact, Contact: model.ContactFields{Org: "Acme"}}, true},
		{"email without to", model.GeneratorDraft{Kind: model.DraftKindEmail, Email: model.EmailFields{Subject: "s"}}, false},
		{"email", model.GeneratorDraft{Kind: model.DraftKindEmail, Email: model.EmailFields{To: "a@b.c"}}, true},
		{"unknown kind", model.GeneratorDraft{Kind: "BOGUS", Text: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasContent(tt.draft))
		})
	}
}
