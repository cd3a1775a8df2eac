package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ContentBounds returns the smallest rectangle holding every pixel that
// differs from bg. It is empty when the whole image is background.
func ContentBounds(img image.Image, bg color.Color) image.Rectangle {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgbaContentBounds(rgba, color.RGBAModel.Convert(bg).(color.RGBA))
	}

	br, bgG, bb, ba := bg.RGBA()
	bounds := img.Bounds()
	content := image.Rectangle{}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if r == br && g == bgG && b == bb && a == ba {
				continue
			}
			content = content.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return content
}

func rgbaContentBounds(img *image.RGBA, bg color.RGBA) image.Rectangle {
	bounds := img.Bounds()
	content := image.Rectangle{}
	if bounds.Empty() {
		return content
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		minX, maxX := -1, -1
		row := img.Pix[img.PixOffset(bounds.Min.X, y):img.PixOffset(bounds.Max.X-1, y)+4]
		for i := 0; i < len(row); i += 4 {
			if row[i] == bg.R && row[i+1] == bg.G && row[i+2] == bg.B && row[i+3] == bg.A {
				continue
			}
			x := bounds.Min.X + i/4
			if minX < 0 {
				minX = x
			}
			maxX = x
		}
		if minX >= 0 {
			content = content.Union(image.Rect(minX, y, maxX+1, y+1))
		}
	}
	return content
}

// Crop copies the content of img, grown by pad pixels on every side and
// clipped to the source bounds, into a new image.
func Crop(img image.Image, bg color.Color, pad int) *image.RGBA {
	content := ContentBounds(img, bg)
	if content.Empty() {
		content = img.Bounds()
	} else {
		content = content.Inset(-pad).Intersect(img.Bounds())
	}

	out := image.NewRGBA(image.Rect(0, 0, content.Dx(), content.Dy()))
	draw.Draw(out, out.Bounds(), img, content.Min, draw.Src)
	return out
}
