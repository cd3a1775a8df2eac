package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/color"
)

// GenerateImageHash hashes the RGBA pixels of img row by row, so equal
// renderings give equal hashes whatever their concrete image type.
func GenerateImageHash(img image.Image) (string, error) {
	hasher := sha256.New()
	bounds := img.Bounds()

	if rgba, ok := img.(*image.RGBA); ok {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			start := rgba.PixOffset(bounds.Min.X, y)
			hasher.Write(rgba.Pix[start : start+4*bounds.Dx()])
		}
		return hex.EncodeToString(hasher.Sum(nil)), nil
	}

	row := make([]byte, 0, 4*bounds.Dx())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row = row[:0]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			row = append(row, c.R, c.G, c.B, c.A)
		}
		hasher.Write(row)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
