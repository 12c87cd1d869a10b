package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
)

// draftFlags binds the generator draft inputs shared by encode and render.
type draftFlags struct {
	kind  string
	draft model.GeneratorDraft
}

func (f *draftFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.kind, "kind", string(model.DraftKindURL), "Draft kind: URL, TEXT, WIFI, CONTACT or EMAIL")
	fs.StringVar(&f.draft.Text, "text", "", "URL or text content")
	fs.StringVar(&f.draft.WiFi.SSID, "ssid", "", "WiFi network name")
	fs.StringVar(&f.draft.WiFi.Password, "password", "", "WiFi password")
	fs.StringVar((*string)(&f.draft.WiFi.Encryption), "encryption", string(model.WiFiEncryptionWPA), "WiFi encryption: WPA, WEP or nopass")
	fs.BoolVar(&f.draft.WiFi.Hidden, "hidden", false, "WiFi network is hidden")
	fs.StringVar(&f.draft.Contact.FirstName, "first-name", "", "Contact first name")
	fs.StringVar(&f.draft.Contact.LastName, "last-name", "", "Contact last name")
	fs.StringVar(&f.draft.Contact.Phone, "phone", "", "Contact phone")
	fs.StringVar(&f.draft.Contact.Email, "email", "", "Contact email")
	fs.StringVar(&f.draft.Contact.Org, "org", "", "Contact organization")
	fs.StringVar(&f.draft.Email.To, "to", "", "Email recipient")
	fs.StringVar(&f.draft.Email.Subject, "subject", "", "Email subject")
	fs.StringVar(&f.draft.Email.Body, "body", "", "Email body")
}

// build returns the draft with its kind validated.
func (f *draftFlags) build() (model.GeneratorDraft, error) {
	kind := model.DraftKind(strings.ToUpper(f.kind))
	if !kind.Valid() {
		return model.GeneratorDraft{}, fmt.Errorf("unknown draft kind %q", f.kind)
	}
	if !f.draft.WiFi.Encryption.Valid() {
		return model.GeneratorDraft{}, fmt.Errorf("unknown WiFi encryption %q", f.draft.WiFi.Encryption)
	}
	d := f.draft
	d.Kind = kind
	return d, nil
}
