package qr

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// DataURL renders url as a QR PNG and returns it as a data URL, ready to
// be stored on the photo row and embedded by clients directly.
func DataURL(url string) (string, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
