package render

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

const quietZone = 2

// QRCodePNG encodes content as a size x size PNG.
func QRCodePNG(content string, size int) ([]byte, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to scale QR code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("failed to encode QR code as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// QRCodeText renders content with half-block glyphs, two modules per line.
// Dark modules are drawn with blocks, so the code scans on a light terminal
// background.
func QRCodeText(content string) (string, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}

	bounds := code.Bounds()
	dark := func(x, y int) bool {
		if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
			return false
		}
		return isDark(code.At(x, y))
	}

	var sb strings.Builder
	for y := bounds.Min.Y - quietZone; y < bounds.Max.Y+quietZone; y += 2 {
		for x := bounds.Min.X - quietZone; x < bounds.Max.X+quietZone; x++ {
			top, bottom := dark(x, y), dark(x, y+1)
			switch {
			case top && bottom:
				sb.WriteString("█")
			case top:
				sb.WriteString("▀")
			case bottom:
				sb.WriteString("▄")
			default:
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// isDark reports whether c is closer to black than white.
func isDark(c color.Color) bool {
	gray := color.GrayModel.Convert(c).(color.Gray)
	return gray.Y < 0x80
}
