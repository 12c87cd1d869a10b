package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPalettes(t *testing.T) {
	palettes, err := Palettes()
	require.NoError(t, err)
	require.Len(t, palettes, 8)
	assert.Equal(t, Palette{Name: "Classic", Foreground: "#000000", Background: "#ffffff"}, palettes[0])

	for _, p := range palettes {
		assert.Regexp(t, hexColorRe, p.Foreground, p.Name)
		assert.Regexp(t, hexColorRe, p.Background, p.Name)
	}

	palettes[0].Name = "mutated"
	again, err := Palettes()
	require.NoError(t, err)
	assert.Equal(t, "Classic", again[0].Name)
}

func TestPaletteByName(t *testing.T) {
	p, ok := PaletteByName("Emerald")
	require.True(t, ok)
	assert.Equal(t, "Emerald", p.Name)

	_, ok = PaletteByName("emerald")
	assert.False(t, ok)
}

func TestRenderStyle_Normalized(t *testing.T) {
	got := RenderStyle{}.Normalized()
	assert.Equal(t, DefaultRenderStyle().ModuleStyle, got.ModuleStyle)
	assert.Equal(t, 300, got.Size)
	assert.Equal(t, DefaultLogoScale, got.LogoScale)
	assert.Equal(t, 10, got.Margin)

	got = RenderStyle{LogoScale: 0.01, Margin: -4, Foreground: "#123"}.Normalized()
	assert.Equal(t, MinLogoScale, got.LogoScale)
	assert.Equal(t, 10, got.Margin)
	assert.Equal(t, "#123", got.Foreground)

	assert.Equal(t, MaxLogoScale, RenderStyle{LogoScale: 0.9}.Normalized().LogoScale)
}

func TestRenderStyle_Validate(t *testing.T) {
	require.NoError(t, DefaultRenderStyle().Validate())

	tests := []struct {
		name   string
		mutate func(*RenderStyle)
		errMsg string
	}{
		{"module style", func(s *RenderStyle) { s.ModuleStyle = "hex" }, "module style"},
		{"corner style", func(s *RenderStyle) { s.CornerStyle = "star" }, "corner style"},
		{"corner dot", func(s *RenderStyle) { s.CornerDotStyle = "ring" }, "corner dot style"},
		{"ec level", func(s *RenderStyle) { s.ErrorCorrection = "X" }, "error correction"},
		{"foreground", func(s *RenderStyle) { s.Foreground = "blue" }, "foreground"},
		{"background", func(s *RenderStyle) { s.Background = "#12345" }, "background"},
		{"size", func(s *RenderStyle) { s.Size = 4096 }, "exceeds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultRenderStyle()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestImageFormat_ContentType(t *testing.T) {
	assert.Equal(t, "image/png", ImageFormatPNG.ContentType())
	assert.Equal(t, "image/jpeg", ImageFormatJPEG.ContentType())
}

func TestScanRecord(t *testing.T) {
	at := time.Date(2026, 5, 1, 9, 30, 0, 123_000_000, time.UTC)
	rec := NewScanRecord("id-1", "hello", "", at)

	assert.Equal(t, UnknownKind, rec.Kind)
	assert.Equal(t, at, rec.CreatedTime())
	assert.False(t, rec.HasAnnotation())
	assert.Equal(t, "", rec.AnnotationText())

	annotated := rec.WithAnnotation("A greeting.")
	assert.True(t, annotated.HasAnnotation())
	assert.Equal(t, "A greeting.", annotated.AnnotationText())
	assert.False(t, rec.HasAnnotation(), "original is unchanged")
}

func TestScanRecord_JSONLayout(t *testing.T) {
	rec := NewScanRecord("id-1", "hi", "QR_CODE", time.UnixMilli(1700000000000)).WithAnnotation("x")

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"id-1","type":"QR_CODE","data":"hi","timestamp":1700000000000,"aiAnalysis":"x"}`, string(b))
}

func TestDecoderMetadata_Kind(t *testing.T) {
	assert.Equal(t, UnknownKind, DecoderMetadata{}.Kind())
	assert.Equal(t, "EAN_13", DecoderMetadata{FormatName: "EAN_13"}.Kind())
}
