package model

import "time"

// UnknownKind is recorded when the decoder reports no symbology name.
const UnknownKind = "UNKNOWN"

// ScanRecord is one entry in the scan history. ID, Payload, Kind and CreatedAt
// never change after creation; only Annotation is set later by the
// summarization step.
//
// JSON field names match the persisted layout of earlier releases.
type ScanRecord struct {
	ID         string  `json:"id"`
	Kind       string  `json:"type"`
	Payload    string  `json:"data"`
	CreatedAt  int64   `json:"timestamp"` // Unix epoch milliseconds.
	Annotation *string `json:"aiAnalysis,omitempty"`
}

// NewScanRecord builds a record stamped with the given creation time. An empty
// kind is recorded as UnknownKind.
func NewScanRecord(id, payload, kind string, createdAt time.Time) ScanRecord {
	if kind == "" {
		kind = UnknownKind
	}
	return ScanRecord{
		ID:        id,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: createdAt.UnixMilli(),
	}
}

// CreatedTime returns CreatedAt as a time.Time in UTC.
func (r ScanRecord) CreatedTime() time.Time {
	return time.UnixMilli(r.CreatedAt).UTC()
}

// HasAnnotation reports whether the summarization step has completed.
func (r ScanRecord) HasAnnotation() bool {
	return r.Annotation != nil
}

// AnnotationText returns the annotation or "" when absent.
func (r ScanRecord) AnnotationText() string {
	if r.Annotation == nil {
		return ""
	}
	return *r.Annotation
}

// WithAnnotation returns a copy of r carrying the given annotation.
func (r ScanRecord) WithAnnotation(text string) ScanRecord {
	r.Annotation = &text
	return r
}

// DecoderMetadata is the side information an optical decoder reports with
// each decode event.
type DecoderMetadata struct {
	FormatName string `json:"format_name,omitempty"`
}

// Kind returns the symbology name, falling back to UnknownKind.
func (m DecoderMetadata) Kind() string {
	if m.FormatName == "" {
		return UnknownKind
	}
	return m.FormatName
}
