package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const size = 512

// PNG renders content as a QR code image.
func PNG(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}
