package render

import (
	"image"
	"image/png"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"minibrowser/pkg/css"
	"minibrowser/pkg/layout"
	"minibrowser/pkg/text"
)

// Renderer paints a render tree onto an RGBA canvas.
type Renderer struct {
	context *gg.Context
	fonts   *text.FontCache
}

func NewRenderer(width, height int, fonts *text.FontCache) *Renderer {
	return &Renderer{context: gg.NewContext(width, height), fonts: fonts}
}

// Render clears the canvas and paints root. The viewport's X and Y are the
// scroll offsets; everything is shifted by them.
func (r *Renderer) Render(root layout.RenderBox, viewport layout.Rect) {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()

	r.context.Push()
	r.context.Translate(-viewport.X, -viewport.Y)
	r.drawBox(root)
	r.context.Pop()
}

func (r *Renderer) drawBox(rb layout.RenderBox) {
	switch b := rb.(type) {
	case *layout.RenderBlockBox:
		r.drawBlock(b)
	case *layout.RenderAnonymousBox:
		for _, line := range b.Children {
			r.drawLine(line)
		}
	}
}

func (r *Renderer) drawBlock(b *layout.RenderBlockBox) {
	if bg := b.BackgroundColor; bg != nil && bg.A > 0 {
		area := b.ContentAreaAsRect()
		r.setColor(*bg)
		r.context.DrawRectangle(area.X, area.Y, area.Width, area.Height)
		r.context.Fill()
	}
	r.drawBorder(b)
	for _, child := range b.Children {
		r.drawBox(child)
	}
}

// drawBorder strokes each side in the middle of its border width, snapped
// to the half-pixel grid.
func (r *Renderer) drawBorder(b *layout.RenderBlockBox) {
	bw := b.BorderWidth
	if bw.Top <= 0 && bw.Right <= 0 && bw.Bottom <= 0 && bw.Left <= 0 {
		return
	}
	color := css.Black
	if b.BorderColor != nil {
		color = *b.BorderColor
	}
	r.setColor(color)

	outer := b.BorderBox()
	sides := []struct {
		width          float64
		x1, y1, x2, y2 float64
	}{
		{bw.Top, outer.X, outer.Y + bw.Top/2, outer.X + outer.Width, outer.Y + bw.Top/2},
		{bw.Bottom, outer.X, outer.Y + outer.Height - bw.Bottom/2, outer.X + outer.Width, outer.Y + outer.Height - bw.Bottom/2},
		{bw.Left, outer.X + bw.Left/2, outer.Y, outer.X + bw.Left/2, outer.Y + outer.Height},
		{bw.Right, outer.X + outer.Width - bw.Right/2, outer.Y, outer.X + outer.Width - bw.Right/2, outer.Y + outer.Height},
	}
	for _, s := range sides {
		if s.width <= 0 {
			continue
		}
		r.context.SetLineWidth(s.width)
		r.context.DrawLine(s.x1, s.y1, s.x2, s.y2)
		r.context.Stroke()
	}
}

func (r *Renderer) drawLine(line *layout.RenderLineBox) {
	for _, in := range line.Children {
		switch b := in.(type) {
		case *layout.RenderTextBox:
			r.drawText(b)
		case *layout.RenderImageBox:
			r.drawImage(b)
		case *layout.RenderErrorBox:
			r.drawErrorBox(b.Rect)
		case *layout.RenderBlockBox:
			r.drawBlock(b)
		}
	}
}

func (r *Renderer) drawText(b *layout.RenderTextBox) {
	if r.fonts == nil || b.Text == "" {
		return
	}
	// Text is measured at twice its font size during layout.
	face := r.fonts.Face(b.FontFamily, b.FontWeight, b.FontStyle, b.FontSize*2)
	if face == nil {
		return
	}
	color := css.Black
	if b.Color != nil {
		color = *b.Color
	}
	r.setColor(color)
	r.context.SetFontFace(face)

	ascent := float64(face.Metrics().Ascent) / 64
	baseline := b.Rect.Y + ascent
	r.context.DrawString(b.Text, b.Rect.X, baseline)

	if b.Link != nil {
		width, _ := text.MeasureText(face, b.Text)
		thickness := max(b.FontSize/6, 1)
		y := baseline + thickness*1.5
		r.context.SetLineWidth(thickness)
		r.context.DrawLine(b.Rect.X, y, b.Rect.X+width, y)
		r.context.Stroke()
	}
}

func (r *Renderer) drawImage(b *layout.RenderImageBox) {
	if b.Image == nil {
		r.drawErrorBox(b.Rect)
		return
	}
	w, h := int(b.Rect.Width), int(b.Rect.Height)
	if w <= 0 || h <= 0 {
		return
	}
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), b.Image, b.Image.Bounds(), draw.Over, nil)
	r.context.DrawImage(scaled, int(b.Rect.X), int(b.Rect.Y))
}

// drawErrorBox paints the broken image placeholder: a grey box with a
// cross.
func (r *Renderer) drawErrorBox(rect layout.Rect) {
	r.context.SetRGB(0.9, 0.9, 0.9)
	r.context.DrawRectangle(rect.X, rect.Y, rect.Width, rect.Height)
	r.context.Fill()

	inset := rect.WithInset(0)
	r.context.SetRGB(0.5, 0.5, 0.5)
	r.context.SetLineWidth(1)
	r.context.DrawRectangle(inset.X, inset.Y, inset.Width, inset.Height)
	r.context.DrawLine(rect.X, rect.Y, rect.X+rect.Width, rect.Y+rect.Height)
	r.context.DrawLine(rect.X+rect.Width, rect.Y, rect.X, rect.Y+rect.Height)
	r.context.Stroke()
}

func (r *Renderer) setColor(c css.Color) {
	r.context.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
}

// Image returns the canvas.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

func (r *Renderer) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.context.Image())
}
