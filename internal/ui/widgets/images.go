package widgets

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Stage images may be JPEG
	_ "image/png"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/piwi3910/jigsnap/internal/model"
)

// PlaceholderSize is the side of a generated stage image in pixels.
const PlaceholderSize = 512

// MaxImageSide bounds the longer side of a loaded stage image.
const MaxImageSide = 2048

// LoadImage decodes a PNG, JPEG, BMP or WebP file, scaling it down so its
// longer side is at most MaxImageSide.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return Downscale(img, MaxImageSide), nil
}

// Downscale returns img resized so neither side exceeds maxSide, keeping its
// aspect ratio. Images already small enough are returned unchanged.
func Downscale(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	if maxSide <= 0 || longest <= maxSide {
		return img
	}
	scale := float64(maxSide) / float64(longest)
	w := max(int(math.Round(float64(b.Dx())*scale)), 1)
	h := max(int(math.Round(float64(b.Dy())*scale)), 1)
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}

// Placeholder draws a stand-in picture for a stage whose image is missing:
// a diagonal color sweep with every grid cell shaded differently so pieces
// remain distinguishable.
func Placeholder(stage model.Stage, size int) image.Image {
	if size <= 0 {
		size = PlaceholderSize
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	rows, cols := max(stage.Rows, 1), max(stage.Cols, 1)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			u, v := float64(x)/float64(size), float64(y)/float64(size)
			row, col := int(v*float64(rows)), int(u*float64(cols))
			shade := 0.75
			if (row+col)%2 == 0 {
				shade = 1
			}
			img.Set(x, y, color.NRGBA{
				R: uint8(255 * shade * u),
				G: uint8(255 * shade * (1 - v)),
				B: uint8(255 * shade * (0.5 + 0.5*math.Sin(math.Pi*(u+v)))),
				A: 255,
			})
		}
	}
	return img
}

// CropPiece returns the part of img a piece samples: the cell of a rows x
// cols grid whose top-left corner is at tex, in fractions of the image.
func CropPiece(img image.Image, tex model.Point2D, rows, cols int) image.Image {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	x0 := b.Min.X + int(math.Round(tex.X*w))
	y0 := b.Min.Y + int(math.Round(tex.Y*h))
	x1 := b.Min.X + int(math.Round((tex.X+1/float64(cols))*w))
	y1 := b.Min.Y + int(math.Round((tex.Y+1/float64(rows))*h))
	rect := image.Rect(x0, y0, x1, y1).Intersect(b)

	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect)
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out
}
