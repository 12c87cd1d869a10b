package model

// ClassifiedPayload is the structured view of a raw payload. It is always
// recomputed from the raw text and never persisted.
//
// The concrete variants are WifiConfig, ContactCard, EmailDraft, WebLink and
// PlainText.
type ClassifiedPayload interface {
	Kind() PayloadKind
}

// WifiConfig holds the fields of a WIFI: network configuration payload. SSID
// is always present; the other fields are nil when their tag is missing.
// Values are reported exactly as encoded (escapes are not removed).
type WifiConfig struct {
	SSID     string  `json:"ssid"`
	Password *string `json:"password,omitempty"`
	Security *string `json:"security,omitempty"`
	Hidden   *string `json:"hidden,omitempty"`
}

// Kind implements ClassifiedPayload.
func (WifiConfig) Kind() PayloadKind { return PayloadKindWiFi }

// SecurityLabel returns the security type, or "None" when not tagged.
func (w WifiConfig) SecurityLabel() string {
	if w.Security == nil || *w.Security == "" {
		return "None"
	}
	return *w.Security
}

// IsHidden reports whether the network is tagged as hidden.
func (w WifiConfig) IsHidden() bool {
	return w.Hidden != nil && *w.Hidden == "true"
}

// ContactCard holds the fields extracted from a vCard block. Every field is
// optional.
type ContactCard struct {
	Name         *string `json:"name,omitempty"`
	Organization *string `json:"organization,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	URL          *string `json:"url,omitempty"`
}

// Kind implements ClassifiedPayload.
func (ContactCard) Kind() PayloadKind { return PayloadKindContact }

// EmailDraft holds the fields of a mailto: payload. Subject and Body are
// percent-decoded and nil when the parameter is missing.
type EmailDraft struct {
	Address string  `json:"address"`
	Subject *string `json:"subject,omitempty"`
	Body    *string `json:"body,omitempty"`
}

// Kind implements ClassifiedPayload.
func (EmailDraft) Kind() PayloadKind { return PayloadKindEmail }

// WebLink is a payload starting with http. Host and Domain are empty when the
// text does not parse as a URL.
type WebLink struct {
	URL    string `json:"url"`
	Host   string `json:"host,omitempty"`
	Domain string `json:"domain,omitempty"`
}

// Kind implements ClassifiedPayload.
func (WebLink) Kind() PayloadKind { return PayloadKindLink }

// PlainText is the fallback for payloads no other rule recognizes.
type PlainText struct {
	Text string `json:"text"`
}

// Kind implements ClassifiedPayload.
func (PlainText) Kind() PayloadKind { return PayloadKindText }
