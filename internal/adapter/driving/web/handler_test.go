package web

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/scanmaster/internal/adapter/driven/qrrender"
	vm "github.com/ericfisherdev/scanmaster/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/scanmaster/internal/application"
	"github.com/ericfisherdev/scanmaster/internal/domain/model"
	"github.com/ericfisherdev/scanmaster/internal/domain/port/driven"
)

const testToken = "test-csrf-token"

type webFixture struct {
	mux     *http.ServeMux
	session *application.ScanSession
}

func setupWeb(t *testing.T) *webFixture {
	t.Helper()
	history := application.NewHistoryStore(context.Background(), nil, slog.Default())
	session := application.NewScanSession(history, nil, nil, application.SessionOptions{}, slog.Default())
	t.Cleanup(session.Close)

	h := NewHandler(session, application.NewGeneratorService(qrrender.NewRenderer()), slog.Default())
	mux := http.NewServeMux()
	RegisterRoutes(mux, h)
	return &webFixture{mux: mux, session: session}
}

func (f *webFixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// post submits form with a matching CSRF cookie and field unless token is empty.
func (f *webFixture) post(t *testing.T, path string, form url.Values, token string) *httptest.ResponseRecorder {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if token != "" {
		form.Set(csrfFormField, token)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testToken})
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestScanPage_IssuesCSRFCookie(t *testing.T) {
	f := setupWeb(t)

	rec := f.get(t, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "Enter a code manually")
	assert.Contains(t, body, `class="active" aria-current="page">Scan</a>`)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, csrfCookieName, cookies[0].Name)
	assert.Contains(t, body, `value="`+cookies[0].Value+`"`)
}

func TestSubmitScan_RequiresCSRF(t *testing.T) {
	f := setupWeb(t)

	rec := f.post(t, "/app/scan", url.Values{"text": {"hello"}}, "wrong-token")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, f.session.History())
}

func TestSubmitScan_ShowsResult(t *testing.T) {
	f := setupWeb(t)

	rec := f.post(t, "/app/scan", url.Values{
		"text":        {"WIFI:S:<Home>;T:WPA;P:secret;H:true;;"},
		"format_name": {"MANUAL"},
	}, testToken)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/app/result", rec.Header().Get("Location"))

	rec = f.get(t, "/app/result")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "WiFi Configuration")
	assert.Contains(t, body, "&lt;Home&gt;")
	assert.NotContains(t, body, "<Home>")
	assert.Contains(t, body, `class="secret" data-secret>secret</dd>`)
	assert.Contains(t, body, "<dt>Hidden</dt><dd>Yes</dd>")
	assert.Contains(t, body, "No analysis available.")
	assert.Contains(t, body, "data-copy")
}

func TestResult_LinkOffersOpen(t *testing.T) {
	f := setupWeb(t)
	f.session.RecordScan(context.Background(), "https://example.com/a?b=c", model.DecoderMetadata{FormatName: "QR_CODE"})

	body := f.get(t, "/app/result").Body.String()

	assert.Contains(t, body, `href="https://example.com/a?b=c"`)
	assert.Contains(t, body, "Open link")
}

func TestResult_NoCurrentRedirects(t *testing.T) {
	f := setupWeb(t)

	rec := f.get(t, "/app/result")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestDismiss(t *testing.T) {
	f := setupWeb(t)
	f.session.RecordScan(context.Background(), "hello", model.DecoderMetadata{})

	rec := f.post(t, "/app/result/dismiss", nil, testToken)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	_, ok := f.session.Current()
	assert.False(t, ok)
}

func TestHistoryPage(t *testing.T) {
	f := setupWeb(t)

	body := f.get(t, "/app/history").Body.String()
	assert.Contains(t, body, "No scans yet.")

	ctx := context.Background()
	f.session.RecordScan(ctx, "first", model.DecoderMetadata{})
	second, _ := f.session.RecordScan(ctx, "mailto:a@b.c", model.DecoderMetadata{})

	body = f.get(t, "/app/history").Body.String()
	assert.Less(t, strings.Index(body, `<span class="preview">mailto:a@b.c</span>`),
		strings.Index(body, `<span class="preview">first</span>`), "newest first")
	assert.Contains(t, body, "/app/history/"+second.ID+"/delete")
	assert.Contains(t, body, "Clear all")
}

func TestHistoryActions(t *testing.T) {
	f := setupWeb(t)
	ctx := context.Background()
	first, _ := f.session.RecordScan(ctx, "first", model.DecoderMetadata{})
	f.session.RecordScan(ctx, "second", model.DecoderMetadata{})

	rec := f.post(t, "/app/history/"+first.ID+"/select", nil, testToken)
	assert.Equal(t, "/app/result", rec.Header().Get("Location"))
	current, _ := f.session.Current()
	assert.Equal(t, first.ID, current.ID)

	rec = f.post(t, "/app/history/missing/select", nil, testToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.post(t, "/app/history/"+first.ID+"/delete", nil, testToken)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Len(t, f.session.History(), 1)

	rec = f.post(t, "/app/history/clear", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, f.session.History(), 1)

	f.post(t, "/app/history/clear", nil, testToken)
	assert.Empty(t, f.session.History())
}

func TestGeneratorPage(t *testing.T) {
	f := setupWeb(t)

	rec := f.get(t, "/app/generate?kind=WIFI&ssid=Home&password=pw&palette=Emerald")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="ssid" value="Home"`)
	assert.Contains(t, body, "WIFI:S:Home;T:WPA;P:pw;H:false;;")
	assert.Contains(t, body, "/app/generate/image?")
	assert.Contains(t, body, "Download")
	assert.Contains(t, body, `value="Emerald" checked`)
	assert.Contains(t, body, "Download with logo")
	assert.Contains(t, body, `<input type="hidden" name="ssid" value="Home">`)
	assert.Contains(t, body, `name="logo_scale"`)
}

func TestGeneratorPage_EmptyDraft(t *testing.T) {
	f := setupWeb(t)

	body := f.get(t, "/app/generate").Body.String()

	assert.Contains(t, body, "Fill in the form to create a code.")
	assert.NotContains(t, body, ">Download</a>")
}

func TestGeneratorImage(t *testing.T) {
	f := setupWeb(t)

	rec := f.get(t, "/app/generate/image?kind=TEXT&text=hi")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = f.get(t, "/app/generate/image?kind=TEXT&text=hi&format=jpeg&download=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="qrcode-text.jpg"`, rec.Header().Get("Content-Disposition"))

	rec = f.get(t, "/app/generate/image?kind=TEXT")
	assert.Equal(t, http.StatusOK, rec.Code, "empty preview renders")

	rec = f.get(t, "/app/generate/image?kind=TEXT&download=1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.get(t, "/app/generate/image?kind=TEXT&text=hi&fg=red")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseGeneratorForm(t *testing.T) {
	form := parseGeneratorForm(url.Values{
		"kind":       {"WIFI"},
		"ssid":       {"Home"},
		"encryption": {"bogus"},
		"hidden":     {"on"},
		"palette":    {"Dark"},
		"format":     {"gif"},
	})

	assert.Equal(t, model.DraftKindWiFi, form.Draft.Kind)
	assert.Equal(t, model.WiFiEncryptionWPA, form.Draft.WiFi.Encryption)
	assert.True(t, form.Draft.WiFi.Hidden)
	dark, ok := model.PaletteByName("Dark")
	require.True(t, ok)
	assert.Equal(t, dark.Foreground, form.Style.Foreground)
	assert.Equal(t, model.ImageFormatPNG, form.Format)
	assert.Equal(t, model.ModuleStyleRounded, form.Style.ModuleStyle)

	again := parseGeneratorForm(form.query())
	assert.Equal(t, form.Draft, again.Draft)
	assert.Equal(t, form.Style, again.Style)

	assert.Equal(t, model.DraftKindURL, parseGeneratorForm(url.Values{"kind": {"SMS"}}).Draft.Kind)
}

func TestPayloadFields(t *testing.T) {
	name := "Ada"
	fields := payloadFields(model.ContactCard{Name: &name})
	require.Len(t, fields, 1)
	assert.Equal(t, "Name", fields[0].Label)

	fields = payloadFields(model.WifiConfig{SSID: "Home"})
	assert.Equal(t, []string{"Network", "Security"}, labels(fields))
	assert.Equal(t, "None", fields[1].Value)
}

func TestPreviewAndAge(t *testing.T) {
	assert.Equal(t, "a b", preview("a\n  b"))
	long := preview(strings.Repeat("x", 100))
	assert.Equal(t, previewRunes, len([]rune(long)))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "just now", relativeAge(now, now.Add(-10*time.Second)))
	assert.Equal(t, "5m ago", relativeAge(now, now.Add(-5*time.Minute)))
	assert.Equal(t, "3h ago", relativeAge(now, now.Add(-3*time.Hour)))
}

func labels(fields []vm.FieldViewModel) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Label)
	}
	return out
}

type blockingSummarizer struct{ release chan struct{} }

func (b blockingSummarizer) Summarize(ctx context.Context, _ driven.SummaryRequest) (string, error) {
	select {
	case <-b.release:
		return "done", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestResult_PendingRefreshes(t *testing.T) {
	summarizer := blockingSummarizer{release: make(chan struct{})}
	history := application.NewHistoryStore(context.Background(), nil, slog.Default())
	session := application.NewScanSession(history, summarizer, nil, application.SessionOptions{}, slog.Default())
	t.Cleanup(session.Close)
	t.Cleanup(func() { close(summarizer.release) })

	mux := http.NewServeMux()
	RegisterRoutes(mux, NewHandler(session, application.NewGeneratorService(qrrender.NewRenderer()), slog.Default()))
	session.RecordScan(context.Background(), "hello", model.DecoderMetadata{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/result", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `<meta http-equiv="refresh" content="2">`)
	assert.Contains(t, body, "Analyzing")
}

func pngLogo(t *testing.T) []byte {
	t.Helper()
	logo := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := range 20 {
		for x := range 20 {
			logo.Set(x, y, color.RGBA{R: 0xff, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, logo))
	return buf.Bytes()
}

// postMultipart submits fields and an optional logo file with a matching CSRF
// cookie.
func (f *webFixture) postMultipart(t *testing.T, fields map[string]string, logo []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if logo != nil {
		part, err := mw.CreateFormFile("logo", "logo.png")
		require.NoError(t, err)
		_, err = part.Write(logo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/app/generate/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testToken})
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestExportWithLogo(t *testing.T) {
	f := setupWeb(t)

	rec := f.postMultipart(t, map[string]string{
		"kind":        "TEXT",
		"text":        "hi",
		"logo_scale":  "0.4",
		csrfFormField: testToken,
	}, pngLogo(t))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="qrcode-text.png"`, rec.Header().Get("Content-Disposition"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	r, g, b, _ := img.At(150, 150).RGBA()
	assert.Greater(t, r>>8, uint32(0xf0))
	assert.Less(t, g>>8, uint32(0x10))
	assert.Less(t, b>>8, uint32(0x10))
}

func TestExportWithLogo_Rejects(t *testing.T) {
	f := setupWeb(t)

	rec := f.postMultipart(t, map[string]string{"kind": "TEXT", "text": "hi"}, pngLogo(t))
	assert.Equal(t, http.StatusForbidden, rec.Code, "missing csrf field")

	rec = f.postMultipart(t, map[string]string{"kind": "TEXT", "text": "hi", csrfFormField: testToken}, []byte("not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.postMultipart(t, map[string]string{"kind": "TEXT", csrfFormField: testToken}, pngLogo(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty draft")
}

func TestParseGeneratorForm_LogoScale(t *testing.T) {
	form := parseGeneratorForm(url.Values{"kind": {"TEXT"}, "logo_scale": {"0.45"}})
	assert.InDelta(t, 0.45, form.Style.LogoScale, 1e-9)

	form = parseGeneratorForm(url.Values{"kind": {"TEXT"}, "logo_scale": {"2"}})
	assert.Equal(t, model.MaxLogoScale, form.Style.LogoScale)
}
