package model

// PayloadKind is the semantic classification of a scanned payload.
type PayloadKind string

const (
	PayloadKindWiFi    PayloadKind = "wifi"
	PayloadKindContact PayloadKind = "contact"
	PayloadKindEmail   PayloadKind = "email"
	PayloadKindLink    PayloadKind = "link"
	PayloadKindText    PayloadKind = "text"
)

// Label returns the human-readable heading shown above a parsed payload.
func (k PayloadKind) Label() string {
	switch k {
	case PayloadKindWiFi:
		return "WiFi Configuration"
	case PayloadKindContact:
		return "Contact Card"
	case PayloadKindEmail:
		return "Email Draft"
	case PayloadKindLink:
		return "Web Link"
	default:
		return "Plain Text"
	}
}

// Action is the primary user action offered for a scanned payload.
type Action string

const (
	ActionOpen Action = "open" // Open the payload as a URL.
	ActionCopy Action = "copy" // Copy the payload to the clipboard.
)

// DraftKind selects which structured form a GeneratorDraft holds.
type DraftKind string

const (
	DraftKindURL     DraftKind = "URL"
	DraftKindText    DraftKind = "TEXT"
	DraftKindWiFi    DraftKind = "WIFI"
	DraftKindContact DraftKind = "CONTACT"
	DraftKindEmail   DraftKind = "EMAIL"
)

// DraftKinds lists every generator kind in display order.
var DraftKinds = []DraftKind{DraftKindURL, DraftKindText, DraftKindWiFi, DraftKindContact, DraftKindEmail}

// Valid reports whether k is one of the known draft kinds.
func (k DraftKind) Valid() bool {
	for _, known := range DraftKinds {
		if k == known {
			return true
		}
	}
	return false
}

// WiFiEncryption is the security type written into a generated WiFi payload.
type WiFiEncryption string

const (
	WiFiEncryptionWPA    WiFiEncryption = "WPA"
	WiFiEncryptionWEP    WiFiEncryption = "WEP"
	WiFiEncryptionNoPass WiFiEncryption = "nopass"
)

// Valid reports whether e is a supported encryption type.
func (e WiFiEncryption) Valid() bool {
	switch e {
	case WiFiEncryptionWPA, WiFiEncryptionWEP, WiFiEncryptionNoPass:
		return true
	}
	return false
}
