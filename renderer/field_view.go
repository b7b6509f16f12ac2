// Package renderer hosts the simulation in a raylib window.
package renderer

import (
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mold/camera"
)

// FieldView shows rendered frames as a texture on screen.
type FieldView struct {
	tex    rl.Texture2D
	texW   int
	texH   int
	pixels []color.RGBA

	initialized bool
}

// NewFieldView creates a view; textures are created lazily on first upload.
func NewFieldView() *FieldView {
	return &FieldView{}
}

// Init creates the texture (must be called after the raylib window exists).
// Wrapped surfaces repeat so the camera can pan across the seam.
func (v *FieldView) Init(w, h int, wrap bool) {
	if v.initialized {
		return
	}
	v.texW = w
	v.texH = h
	v.pixels = make([]color.RGBA, w*h)

	img := rl.GenImageColor(w, h, rl.Black)
	v.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	rl.SetTextureFilter(v.tex, rl.FilterPoint)
	if wrap {
		rl.SetTextureWrap(v.tex, rl.WrapRepeat)
	} else {
		rl.SetTextureWrap(v.tex, rl.WrapClamp)
	}
	v.initialized = true
}

// Upload copies a rendered frame to the GPU texture.
func (v *FieldView) Upload(frame *image.RGBA) {
	if !v.initialized {
		return
	}
	b := frame.Bounds()
	if b.Dx() != v.texW || b.Dy() != v.texH {
		return
	}
	for y := 0; y < v.texH; y++ {
		row := frame.Pix[y*frame.Stride:]
		for x := 0; x < v.texW; x++ {
			p := row[x*4 : x*4+4]
			v.pixels[y*v.texW+x] = color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
	}
	rl.UpdateTexture(v.tex, v.pixels)
}

// Draw renders the visible part of the surface to fill the screen.
func (v *FieldView) Draw(cam *camera.Camera) {
	if !v.initialized {
		return
	}
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	srcRect := rl.Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	dstRect := rl.Rectangle{X: 0, Y: 0, Width: cam.ViewportW, Height: cam.ViewportH}
	rl.DrawTexturePro(v.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (v *FieldView) Unload() {
	if !v.initialized {
		return
	}
	rl.UnloadTexture(v.tex)
	v.initialized = false
}
