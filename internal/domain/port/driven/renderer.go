package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
)

// ErrPayloadTooLong is returned when the data does not fit a QR code at the
// requested error correction level.
var ErrPayloadTooLong = errors.New("payload too long for qr code")

// ErrInvalidLogo is returned when the logo bytes are not a decodable image.
var ErrInvalidLogo = errors.New("invalid logo image")

// Renderer defines the driven port for drawing a payload as a QR image.
type Renderer interface {
	// Render encodes data with the given style and returns the image bytes in
	// the requested format.
	Render(ctx context.Context, data string, style model.RenderStyle, format model.ImageFormat) ([]byte, error)
}
