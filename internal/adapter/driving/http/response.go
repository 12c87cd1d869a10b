package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
	"github.com/ericfisherdev/scanmaster/internal/domain/payload"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// RecordScanRequest is the decoder callback body.
type RecordScanRequest struct {
	Text       string `json:"text"`
	FormatName string `json:"format_name"`
}

// ClassifyRequest is the JSON body for the classify endpoint.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// EncodeRequest is the JSON body for the encode endpoint.
type EncodeRequest struct {
	Draft model.GeneratorDraft `json:"draft"`
}

// EncodeResponse carries the text payload for a draft.
type EncodeResponse struct {
	Payload    string `json:"payload"`
	HasContent bool   `json:"has_content"`
}

// GenerateRequest is the JSON body for the generate endpoint. Preview renders
// empty drafts instead of rejecting them.
type GenerateRequest struct {
	Draft   model.GeneratorDraft `json:"draft"`
	Style   model.RenderStyle    `json:"style"`
	Format  model.ImageFormat    `json:"format"`
	Preview bool                 `json:"preview"`
}

// PayloadResponse is the classified view of a raw payload.
type PayloadResponse struct {
	Kind          string                  `json:"kind"`
	Label         string                  `json:"label"`
	PrimaryAction string                  `json:"primary_action"`
	Fields        model.ClassifiedPayload `json:"fields"`
}

// ScanResponse is the JSON representation of a scan record.
type ScanResponse struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Data       string          `json:"data"`
	Timestamp  int64           `json:"timestamp"`
	ScannedAt  string          `json:"scanned_at"`
	AIAnalysis *string         `json:"ai_analysis"`
	Pending    bool            `json:"pending"`
	Payload    PayloadResponse `json:"payload"`
}

// SessionResponse describes the record on display.
type SessionResponse struct {
	Current *ScanResponse `json:"current"`
}

func toPayloadResponse(raw string) PayloadResponse {
	classified := payload.Classify(raw)
	return PayloadResponse{
		Kind:          string(classified.Kind()),
		Label:         classified.Kind().Label(),
		PrimaryAction: string(payload.PrimaryAction(raw)),
		Fields:        classified,
	}
}

func toScanResponse(rec model.ScanRecord, pending bool) ScanResponse {
	return ScanResponse{
		ID:         rec.ID,
		Type:       rec.Kind,
		Data:       rec.Payload,
		Timestamp:  rec.CreatedAt,
		ScannedAt:  rec.CreatedTime().UTC().Format(time.RFC3339),
		AIAnalysis: rec.Annotation,
		Pending:    pending,
		Payload:    toPayloadResponse(rec.Payload),
	}
}
