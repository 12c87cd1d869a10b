package model

import (
	"fmt"
	"regexp"
)

// ModuleStyle is the shape drawn for each data module.
type ModuleStyle string

const (
	ModuleStyleSquare  ModuleStyle = "square"
	ModuleStyleDots    ModuleStyle = "dots"
	ModuleStyleRounded ModuleStyle = "rounded"
)

// CornerStyle is the shape of the outer ring of each finder pattern.
type CornerStyle string

const (
	CornerStyleSquare       CornerStyle = "square"
	CornerStyleDot          CornerStyle = "dot"
	CornerStyleExtraRounded CornerStyle = "extra-rounded"
)

// CornerDotStyle is the shape of the centre of each finder pattern.
type CornerDotStyle string

const (
	CornerDotStyleSquare CornerDotStyle = "square"
	CornerDotStyleDot    CornerDotStyle = "dot"
)

// ECLevel is the QR error correction level.
type ECLevel string

const (
	ECLevelLow      ECLevel = "L"
	ECLevelMedium   ECLevel = "M"
	ECLevelQuartile ECLevel = "Q"
	ECLevelHigh     ECLevel = "H"
)

// ImageFormat is the encoding of an exported code image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "png"
	ImageFormatJPEG ImageFormat = "jpeg"
)

// ContentType returns the MIME type for the format.
func (f ImageFormat) ContentType() string {
	if f == ImageFormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Logo scale bounds, as a fraction of the code's width.
const (
	MinLogoScale     = 0.1
	MaxLogoScale     = 0.5
	DefaultLogoScale = 0.4
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// RenderStyle configures how a payload is drawn as a QR image.
type RenderStyle struct {
	ModuleStyle     ModuleStyle    `json:"module_style"`
	CornerStyle     CornerStyle    `json:"corner_style"`
	CornerDotStyle  CornerDotStyle `json:"corner_dot_style"`
	Foreground      string         `json:"foreground"`
	Background      string         `json:"background"`
	ErrorCorrection ECLevel        `json:"error_correction"`
	Logo            []byte         `json:"logo,omitempty"` // PNG or JPEG bytes.
	LogoScale       float64        `json:"logo_scale,omitempty"`
	Size            int            `json:"size,omitempty"`   // Output edge length in pixels.
	Margin          int            `json:"margin,omitempty"` // Quiet zone in pixels.
}

// DefaultRenderStyle returns the style the generator starts with.
func DefaultRenderStyle() RenderStyle {
	return RenderStyle{
		ModuleStyle:     ModuleStyleRounded,
		CornerStyle:     CornerStyleExtraRounded,
		CornerDotStyle:  CornerDotStyleDot,
		Foreground:      "#4f46e5",
		Background:      "#ffffff",
		ErrorCorrection: ECLevelHigh,
		LogoScale:       DefaultLogoScale,
		Size:            300,
		Margin:          10,
	}
}

// Normalized fills zero-valued fields from DefaultRenderStyle and clamps
// LogoScale into [MinLogoScale, MaxLogoScale].
func (s RenderStyle) Normalized() RenderStyle {
	def := DefaultRenderStyle()
	if s.ModuleStyle == "" {
		s.ModuleStyle = def.ModuleStyle
	}
	if s.CornerStyle == "" {
		s.CornerStyle = def.CornerStyle
	}
	if s.CornerDotStyle == "" {
		s.CornerDotStyle = def.CornerDotStyle
	}
	if s.Foreground == "" {
		s.Foreground = def.Foreground
	}
	if s.Background == "" {
		s.Background = def.Background
	}
	if s.ErrorCorrection == "" {
		s.ErrorCorrection = def.ErrorCorrection
	}
	if s.Size <= 0 {
		s.Size = def.Size
	}
	if s.Margin <= 0 {
		s.Margin = def.Margin
	}
	switch {
	case s.LogoScale == 0:
		s.LogoScale = def.LogoScale
	case s.LogoScale < MinLogoScale:
		s.LogoScale = MinLogoScale
	case s.LogoScale > MaxLogoScale:
		s.LogoScale = MaxLogoScale
	}
	return s
}

// Validate reports the first unsupported option in s.
func (s RenderStyle) Validate() error {
	switch s.ModuleStyle {
	case ModuleStyleSquare, ModuleStyleDots, ModuleStyleRounded:
	default:
		return fmt.Errorf("unsupported module style %q", s.ModuleStyle)
	}
	switch s.CornerStyle {
	case CornerStyleSquare, CornerStyleDot, CornerStyleExtraRounded:
	default:
		return fmt.Errorf("unsupported corner style %q", s.CornerStyle)
	}
	switch s.CornerDotStyle {
	case CornerDotStyleSquare, CornerDotStyleDot:
	default:
		return fmt.Errorf("unsupported corner dot style %q", s.CornerDotStyle)
	}
	switch s.ErrorCorrection {
	case ECLevelLow, ECLevelMedium, ECLevelQuartile, ECLevelHigh:
	default:
		return fmt.Errorf("unsupported error correction level %q", s.ErrorCorrection)
	}
	if !hexColorRe.MatchString(s.Foreground) {
		return fmt.Errorf("invalid foreground colour %q", s.Foreground)
	}
	if !hexColorRe.MatchString(s.Background) {
		return fmt.Errorf("invalid background colour %q", s.Background)
	}
	if s.Size > 2048 {
		return fmt.Errorf("size %d exceeds 2048 pixels", s.Size)
	}
	return nil
}
