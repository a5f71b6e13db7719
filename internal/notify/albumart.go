package notify

import (
	"bytes"
	"image"
	_ "image/jpeg" // cover art decoders
	_ "image/png"

	"github.com/nfnt/resize"
)

// artworkSize is the square edge notifications scale cover art to.
// Servers clamp large images anyway; sending them full-size just
// bloats the bus message.
const artworkSize = 128

// ScaleArtwork decodes raw cover art bytes and scales them down for a
// notification. Returns nil when the data is not a decodable image.
func ScaleArtwork(data []byte) image.Image {
	if len(data) == 0 {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	b := img.Bounds()
	if b.Dx() <= artworkSize && b.Dy() <= artworkSize {
		return img
	}
	return resize.Thumbnail(artworkSize, artworkSize, img, resize.Lanczos3)
}
