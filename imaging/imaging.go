// Package imaging prepares images before they are uploaded to an engine.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/meghashyamc/picsearch/engines"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

const (
	MaxWidth  = 250
	MaxHeight = 250

	source = "imaging"
)

// Shrink decodes a gif, jpeg, png or webp image, scales it to fit within
// MaxWidth x MaxHeight keeping its aspect ratio, drops the alpha channel and
// re-encodes it as PNG.
func Shrink(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &engines.DecodeError{Engine: source, Err: fmt.Errorf("failed to decode image: %w", err)}
	}

	width, height := fitWithin(img.Bounds().Dx(), img.Bounds().Dy(), MaxWidth, MaxHeight)
	resized := resize.Resize(width, height, opaque(img), resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, &engines.DecodeError{Engine: source, Err: fmt.Errorf("failed to encode %s image as png: %w", format, err)}
	}
	return buf.Bytes(), nil
}

// FileToBase64 reads the image at path, shrinks it and returns the PNG as
// standard base64.
func FileToBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &engines.DecodeError{Engine: source, Err: fmt.Errorf("failed to read %s: %w", path, err)}
	}
	shrunk, err := Shrink(data)
	if err != nil {
		return "", err
	}
	return engines.EncodeBase64(shrunk), nil
}

// fitWithin scales (width, height) up or down so that it just fits the box.
func fitWithin(width, height, maxWidth, maxHeight int) (uint, uint) {
	if width <= 0 || height <= 0 {
		return uint(maxWidth), uint(maxHeight)
	}

	// Compare width/maxWidth against height/maxHeight without floats.
	if width*maxHeight >= height*maxWidth {
		scaledHeight := max(1, (height*maxWidth+width/2)/width)
		return uint(maxWidth), uint(scaledHeight)
	}
	scaledWidth := max(1, (width*maxHeight+height/2)/height)
	return uint(scaledWidth), uint(maxHeight)
}

func opaque(img image.Image) image.Image {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			rgba.Set(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return rgba
}
