package web

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	vm "github.com/ericfisherdev/scanmaster/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/scanmaster/internal/domain/model"
	"github.com/ericfisherdev/scanmaster/internal/domain/payload"
)

const (
	timeLayout   = "Jan 2, 2006 15:04"
	previewRunes = 60
)

// toResultViewModel converts the record on display into its result view.
func toResultViewModel(rec model.ScanRecord, pending bool) vm.ResultViewModel {
	classified := payload.Classify(rec.Payload)
	action := payload.PrimaryAction(rec.Payload)

	result := vm.ResultViewModel{
		ID:             rec.ID,
		Type:           rec.Kind,
		KindLabel:      classified.Kind().Label(),
		Data:           rec.Payload,
		ScannedAt:      rec.CreatedTime().Local().Format(timeLayout),
		Fields:         payloadFields(classified),
		AnnotationHTML: RenderMarkdown(rec.AnnotationText()),
		Pending:        pending,
		PrimaryAction:  string(action),
		DismissURL:     "/app/result/dismiss",
	}
	if action == model.ActionOpen {
		result.OpenURL = rec.Payload
	}
	return result
}

// payloadFields lists the populated fields of a classified payload in display
// order. Absent fields are skipped.
func payloadFields(p model.ClassifiedPayload) []vm.FieldViewModel {
	var fields []vm.FieldViewModel
	add := func(label string, v *string, secret bool) {
		if v != nil && *v != "" {
			fields = append(fields, vm.FieldViewModel{Label: label, Value: *v, Secret: secret})
		}
	}

	switch p := p.(type) {
	case model.WifiConfig:
		add("Network", &p.SSID, false)
		add("Password", p.Password, true)
		security := p.SecurityLabel()
		add("Security", &security, false)
		if p.IsHidden() {
			hidden := "Yes"
			add("Hidden", &hidden, false)
		}
	case model.ContactCard:
		add("Name", p.Name, false)
		add("Organization", p.Organization, false)
		add("Email", p.Email, false)
		add("Phone", p.Phone, false)
		add("Website", p.URL, false)
	case model.EmailDraft:
		add("To", &p.Address, false)
		add("Subject", p.Subject, false)
		add("Body", p.Body, false)
	case model.WebLink:
		add("Host", &p.Host, false)
		add("Domain", &p.Domain, false)
	case model.PlainText:
		add("Text", &p.Text, false)
	}
	return fields
}

func toHistoryViewModel(records []model.ScanRecord, now time.Time) vm.HistoryViewModel {
	items := make([]vm.HistoryItemViewModel, 0, len(records))
	for _, rec := range records {
		escaped := url.PathEscape(rec.ID)
		items = append(items, vm.HistoryItemViewModel{
			ID:            rec.ID,
			Type:          rec.Kind,
			KindLabel:     payload.Classify(rec.Payload).Kind().Label(),
			Preview:       preview(rec.Payload),
			ScannedAt:     relativeAge(now, rec.CreatedTime()),
			HasAnnotation: rec.HasAnnotation(),
			SelectURL:     "/app/history/" + escaped + "/select",
			DeleteURL:     "/app/history/" + escaped + "/delete",
		})
	}
	return vm.HistoryViewModel{Items: items, ClearURL: "/app/history/clear"}
}

// preview collapses whitespace and shortens long payloads for list rows.
func preview(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	runes := []rune(s)
	if len(runes) <= previewRunes {
		return s
	}
	return string(runes[:previewRunes-1]) + "…"
}

// generatorForm is the decoded generator form: the draft, the render style and
// the export format.
type generatorForm struct {
	Draft   model.GeneratorDraft
	Style   model.RenderStyle
	Format  model.ImageFormat
	Palette string
}

// parseGeneratorForm reads a generator form from query values. Unknown kinds
// fall back to URL; an unknown palette is ignored.
func parseGeneratorForm(q url.Values) generatorForm {
	kind := model.DraftKind(q.Get("kind"))
	if !kind.Valid() {
		kind = model.DraftKindURL
	}

	d := model.NewGeneratorDraft(kind)
	d.Text = q.Get("text")
	d.WiFi = model.WiFiFields{
		SSID:       q.Get("ssid"),
		Password:   q.Get("password"),
		Encryption: model.WiFiEncryption(q.Get("encryption")),
		Hidden:     q.Get("hidden") == "on" || q.Get("hidden") == "true",
	}
	if !d.WiFi.Encryption.Valid() {
		d.WiFi.Encryption = model.WiFiEncryptionWPA
	}
	d.Contact = model.ContactFields{
		FirstName: q.Get("first_name"),
		LastName:  q.Get("last_name"),
		Phone:     q.Get("phone"),
		Email:     q.Get("email"),
		Org:       q.Get("org"),
	}
	d.Email = model.EmailFields{To: q.Get("to"), Subject: q.Get("subject"), Body: q.Get("body")}

	style := model.RenderStyle{
		ModuleStyle:     model.ModuleStyle(q.Get("module_style")),
		CornerStyle:     model.CornerStyle(q.Get("corner_style")),
		CornerDotStyle:  model.CornerDotStyle(q.Get("corner_dot_style")),
		Foreground:      q.Get("fg"),
		Background:      q.Get("bg"),
		ErrorCorrection: model.ECLevel(q.Get("ec")),
	}
	if scale, err := strconv.ParseFloat(q.Get("logo_scale"), 64); err == nil {
		style.LogoScale = scale
	}
	palette := q.Get("palette")
	if p, ok := model.PaletteByName(palette); ok {
		style.Foreground, style.Background = p.Foreground, p.Background
	} else {
		palette = ""
	}

	format := model.ImageFormat(q.Get("format"))
	if format != model.ImageFormatJPEG {
		format = model.ImageFormatPNG
	}

	return generatorForm{Draft: d, Style: style.Normalized(), Format: format, Palette: palette}
}

// query re-encodes the form so the preview and download links carry it.
func (f generatorForm) query() url.Values {
	q := url.Values{}
	q.Set("kind", string(f.Draft.Kind))
	set := func(key, v string) {
		if v != "" {
			q.Set(key, v)
		}
	}
	set("text", f.Draft.Text)
	set("ssid", f.Draft.WiFi.SSID)
	set("password", f.Draft.WiFi.Password)
	set("encryption", string(f.Draft.WiFi.Encryption))
	if f.Draft.WiFi.Hidden {
		q.Set("hidden", "true")
	}
	set("first_name", f.Draft.Contact.FirstName)
	set("last_name", f.Draft.Contact.LastName)
	set("phone", f.Draft.Contact.Phone)
	set("email", f.Draft.Contact.Email)
	set("org", f.Draft.Contact.Org)
	set("to", f.Draft.Email.To)
	set("subject", f.Draft.Email.Subject)
	set("body", f.Draft.Email.Body)
	set("module_style", string(f.Style.ModuleStyle))
	set("corner_style", string(f.Style.CornerStyle))
	set("corner_dot_style", string(f.Style.CornerDotStyle))
	set("fg", f.Style.Foreground)
	set("bg", f.Style.Background)
	set("ec", string(f.Style.ErrorCorrection))
	set("format", string(f.Format))
	q.Set("logo_scale", strconv.FormatFloat(f.Style.LogoScale, 'f', -1, 64))
	return q
}

func toGeneratorViewModel(f generatorForm, encoded string, hasContent bool, palettes []model.Palette) vm.GeneratorViewModel {
	d := f.Draft
	q := f.query()

	v := vm.GeneratorViewModel{
		Kind:       string(d.Kind),
		Text:       d.Text,
		SSID:       d.WiFi.SSID,
		Password:   d.WiFi.Password,
		Hidden:     d.WiFi.Hidden,
		FirstName:  d.Contact.FirstName,
		LastName:   d.Contact.LastName,
		Phone:      d.Contact.Phone,
		Email:      d.Contact.Email,
		Org:        d.Contact.Org,
		To:         d.Email.To,
		Subject:    d.Email.Subject,
		Body:       d.Email.Body,
		Foreground: f.Style.Foreground,
		Background: f.Style.Background,
		Payload:    encoded,
		HasContent: hasContent,
		PreviewURL: "/app/generate/image?" + q.Encode(),
	}
	v.ExportURL = "/app/generate/image"
	v.LogoScale = q.Get("logo_scale")
	for _, key := range slices.Sorted(maps.Keys(q)) {
		if key != "logo_scale" {
			v.ExportFields = append(v.ExportFields, vm.HiddenFieldViewModel{Name: key, Value: q.Get(key)})
		}
	}

	q.Set("download", "1")
	v.DownloadURL = "/app/generate/image?" + q.Encode()

	for _, k := range model.DraftKinds {
		v.Kinds = append(v.Kinds, vm.OptionViewModel{Value: string(k), Label: draftKindLabel(k), Selected: k == d.Kind})
	}
	v.Encryption = options(string(d.WiFi.Encryption),
		string(model.WiFiEncryptionWPA), "WPA/WPA2",
		string(model.WiFiEncryptionWEP), "WEP",
		string(model.WiFiEncryptionNoPass), "None")
	v.ModuleStyles = options(string(f.Style.ModuleStyle),
		string(model.ModuleStyleSquare), "Square",
		string(model.ModuleStyleDots), "Dots",
		string(model.ModuleStyleRounded), "Rounded")
	v.CornerStyles = options(string(f.Style.CornerStyle),
		string(model.CornerStyleSquare), "Square",
		string(model.CornerStyleDot), "Dot",
		string(model.CornerStyleExtraRounded), "Extra rounded")
	v.CornerDotStyles = options(string(f.Style.CornerDotStyle),
		string(model.CornerDotStyleSquare), "Square",
		string(model.CornerDotStyleDot), "Dot")
	v.ECLevels = options(string(f.Style.ErrorCorrection),
		string(model.ECLevelLow), "L (7%)",
		string(model.ECLevelMedium), "M (15%)",
		string(model.ECLevelQuartile), "Q (25%)",
		string(model.ECLevelHigh), "H (30%)")
	v.Formats = options(string(f.Format),
		string(model.ImageFormatPNG), "PNG",
		string(model.ImageFormatJPEG), "JPEG")

	for _, p := range palettes {
		v.Palettes = append(v.Palettes, vm.PaletteViewModel{
			Name:       p.Name,
			Foreground: p.Foreground,
			Background: p.Background,
			Selected:   p.Name == f.Palette,
		})
	}
	return v
}

// options builds an option list from value/label pairs.
func options(selected string, pairs ...string) []vm.OptionViewModel {
	out := make([]vm.OptionViewModel, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, vm.OptionViewModel{Value: pairs[i], Label: pairs[i+1], Selected: pairs[i] == selected})
	}
	return out
}

func draftKindLabel(k model.DraftKind) string {
	switch k {
	case model.DraftKindURL:
		return "Link"
	case model.DraftKindText:
		return "Text"
	case model.DraftKindWiFi:
		return "WiFi"
	case model.DraftKindContact:
		return "Contact"
	case model.DraftKindEmail:
		return "Email"
	}
	return string(k)
}

// relativeAge describes t relative to now, switching to a date after a day.
func relativeAge(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return t.Local().Format(timeLayout)
}
