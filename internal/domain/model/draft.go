package model

// WiFiFields is the structured input for a WiFi network payload.
type WiFiFields struct {
	SSID       string         `json:"ssid"`
	Password   string         `json:"password"`
	Encryption WiFiEncryption `json:"encryption"`
	Hidden     bool           `json:"hidden"`
}

// ContactFields is the structured input for a contact card payload.
type ContactFields struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Org       string `json:"org"`
}

// EmailFields is the structured input for a mailto: payload.
type EmailFields struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// GeneratorDraft is the in-progress input while composing a code to generate.
// Only the fields matching Kind are used. Drafts are never persisted.
type GeneratorDraft struct {
	Kind    DraftKind     `json:"kind"`
	Text    string        `json:"text,omitempty"`
	WiFi    WiFiFields    `json:"wifi"`
	Contact ContactFields `json:"contact"`
	Email   EmailFields   `json:"email"`
}

// NewGeneratorDraft returns an empty draft of the given kind with the same
// defaults the generator form starts with.
func NewGeneratorDraft(kind DraftKind) GeneratorDraft {
	return GeneratorDraft{
		Kind: kind,
		WiFi: WiFiFields{Encryption: WiFiEncryptionWPA},
	}
}
