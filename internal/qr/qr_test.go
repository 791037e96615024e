package qr

import (
	"bytes"
	"testing"
)

func TestPNG(t *testing.T) {
	png, err := PNG("https://qr.nspk.ru/AD10006M/79001234567?amount=1500")
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("output is not a PNG image")
	}
}
