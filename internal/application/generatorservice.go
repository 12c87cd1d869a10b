package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
	"github.com/ericfisherdev/scanmaster/internal/domain/payload"
	"github.com/ericfisherdev/scanmaster/internal/domain/port/driven"
)

var (
	// ErrNothingToEncode is returned by Export when the draft has no content.
	ErrNothingToEncode = errors.New("draft has nothing to encode")
	// ErrInvalidStyle wraps render style validation failures.
	ErrInvalidStyle = errors.New("invalid render style")
	// ErrUnsupportedFormat is returned for unknown export formats.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrPayloadTooLong is returned when the encoded draft exceeds QR
	// capacity at the chosen error correction level.
	ErrPayloadTooLong = driven.ErrPayloadTooLong
	// ErrInvalidLogo is returned when the style carries an undecodable logo.
	ErrInvalidLogo = driven.ErrInvalidLogo
)

// GeneratedCode is a rendered code image ready to download.
type GeneratedCode struct {
	Payload     string
	Image       []byte
	ContentType string
	FileName    string
}

// GeneratorService encodes generator drafts and renders them as QR images.
type GeneratorService struct {
	renderer driven.Renderer
}

// NewGeneratorService creates a GeneratorService backed by renderer.
func NewGeneratorService(renderer driven.Renderer) *GeneratorService {
	return &GeneratorService{renderer: renderer}
}

// Encode returns the text payload for d and whether d has content worth
// encoding.
func (s *GeneratorService) Encode(d model.GeneratorDraft) (string, bool) {
	return payload.Encode(d), payload.HasContent(d)
}

// Preview renders d even when it is empty, drawing a single space in place of
// missing data.
func (s *GeneratorService) Preview(ctx context.Context, d model.GeneratorDraft, style model.RenderStyle, format model.ImageFormat) (GeneratedCode, error) {
	data := payload.Encode(d)
	if data == "" {
		data = " "
	}
	return s.render(ctx, d.Kind, data, style, format)
}

// Export renders d for download. It fails with ErrNothingToEncode when d has
// no content.
func (s *GeneratorService) Export(ctx context.Context, d model.GeneratorDraft, style model.RenderStyle, format model.ImageFormat) (GeneratedCode, error) {
	if !payload.HasContent(d) {
		return GeneratedCode{}, ErrNothingToEncode
	}
	return s.render(ctx, d.Kind, payload.Encode(d), style, format)
}

func (s *GeneratorService) render(ctx context.Context, kind model.DraftKind, data string, style model.RenderStyle, format model.ImageFormat) (GeneratedCode, error) {
	if format == "" {
		format = model.ImageFormatPNG
	}
	ext, ok := fileExtension(format)
	if !ok {
		return GeneratedCode{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	style = style.Normalized()
	if err := style.Validate(); err != nil {
		return GeneratedCode{}, fmt.Errorf("%w: %v", ErrInvalidStyle, err)
	}

	img, err := s.renderer.Render(ctx, data, style, format)
	if err != nil {
		return GeneratedCode{}, fmt.Errorf("render %s code: %w", kind, err)
	}

	return GeneratedCode{
		Payload:     data,
		Image:       img,
		ContentType: format.ContentType(),
		FileName:    "qrcode-" + strings.ToLower(string(kind)) + "." + ext,
	}, nil
}

func fileExtension(format model.ImageFormat) (string, bool) {
	switch format {
	case model.ImageFormatPNG:
		return "png", true
	case model.ImageFormatJPEG:
		return "jpg", true
	}
	return "", false
}
