package chart

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	annotationMargin   = 12
	annotationBaseline = 52
)

var annotationColor = image.NewUniform(color.RGBA{R: 40, G: 40, B: 40, A: 255})

// annotate writes left aligned and right aligned labels above the plot area.
func annotate(img *image.RGBA, left, right string) {
	face := basicfont.Face7x13
	b := img.Bounds()
	y := b.Min.Y + annotationBaseline

	dr := &font.Drawer{Dst: img, Src: annotationColor, Face: face}
	if left != "" {
		dr.Dot = fixed.Point26_6{X: fixed.I(b.Min.X + annotationMargin), Y: fixed.I(y)}
		dr.DrawString(left)
	}
	if right != "" {
		width := dr.MeasureString(right).Ceil()
		dr.Dot = fixed.Point26_6{X: fixed.I(b.Max.X - annotationMargin - width), Y: fixed.I(y)}
		dr.DrawString(right)
	}
}
