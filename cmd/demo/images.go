package main

import (
	"image"
	"image/color"
)

// containerImage draws a wooden crate with a steel frame, or its specular map
// where only the frame is shiny.
//
func containerImage(size int, specular bool) image.Image {
	var (
		img    = image.NewNRGBA(image.Rect(0, 0, size, size))
		border = size / 12
		steel  = color.NRGBA{R: 140, G: 140, B: 150, A: 255}
		wood   = color.NRGBA{R: 150, G: 95, B: 45, A: 255}
		seam   = color.NRGBA{R: 90, G: 55, B: 25, A: 255}
	)
	if specular {
		steel = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
		wood = color.NRGBA{A: 255}
		seam = wood
	}
	plank := (size - 2*border) / 5
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			switch {
			case x < border || y < border || x >= size-border || y >= size-border:
				img.SetNRGBA(x, y, steel)
			case plank > 0 && (y-border)%plank == 0:
				img.SetNRGBA(x, y, seam)
			default:
				img.SetNRGBA(x, y, wood)
			}
		}
	}
	return img
}
