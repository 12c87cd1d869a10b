// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// FieldViewModel is one labelled value of a parsed payload.
type FieldViewModel struct {
	Label string
	Value string
	// Secret values are masked until revealed.
	Secret bool
}

// ResultViewModel holds presentation-ready data for the scan result view.
type ResultViewModel struct {
	ID        string
	Type      string
	KindLabel string
	Data      string
	ScannedAt string
	Fields    []FieldViewModel

	// AnnotationHTML is sanitized HTML rendered from the AI annotation.
	AnnotationHTML string
	Pending        bool

	PrimaryAction string // "open" or "copy"
	OpenURL       string // set only when PrimaryAction is "open"
	DismissURL    string
}

// HistoryItemViewModel holds presentation-ready data for one history row.
type HistoryItemViewModel struct {
	ID            string
	Type          string
	KindLabel     string
	Preview       string
	ScannedAt     string
	HasAnnotation bool
	SelectURL     string
	DeleteURL     string
}

// HistoryViewModel is the history page.
type HistoryViewModel struct {
	Items    []HistoryItemViewModel
	ClearURL string
}

// OptionViewModel is one entry of a select or radio group.
type OptionViewModel struct {
	Value    string
	Label    string
	Selected bool
}

// HiddenFieldViewModel is a name/value pair carried in a hidden form input.
type HiddenFieldViewModel struct {
	Name  string
	Value string
}

// PaletteViewModel is a colour preset swatch.
type PaletteViewModel struct {
	Name       string
	Foreground string
	Background string
	Selected   bool
}

// GeneratorViewModel holds the generator form state and its preview.
type GeneratorViewModel struct {
	Kinds []OptionViewModel
	Kind  string

	Text       string
	SSID       string
	Password   string
	Encryption []OptionViewModel
	Hidden     bool
	FirstName  string
	LastName   string
	Phone      string
	Email      string
	Org        string
	To         string
	Subject    string
	Body       string

	Palettes        []PaletteViewModel
	Foreground      string
	Background      string
	ModuleStyles    []OptionViewModel
	CornerStyles    []OptionViewModel
	CornerDotStyles []OptionViewModel
	ECLevels        []OptionViewModel
	Formats         []OptionViewModel

	Payload     string
	HasContent  bool
	PreviewURL  string
	DownloadURL string

	// ExportURL receives the multipart logo export form, which repeats the
	// draft and style in ExportFields.
	ExportURL    string
	ExportFields []HiddenFieldViewModel
	LogoScale    string
}
