// Package compositor renders complete animation frames for one scene.
//
// Rendering is deterministic: two calls with the same scene and progress
// produce identical pixels. The compositor holds only immutable per-run
// resources (fonts, dimensions, optional badge); no state survives between
// frames, and every layer draws inside its own push/pop scope so surface
// attributes never leak from one frame into the next.
package compositor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ivlev/prompt2video/internal/timeline"
)

const DefaultTitle = "PROMPT MOTION"

type Options struct {
	Title  string // fixed top label; DefaultTitle if empty
	QRLink string // optional link rendered as a corner QR badge
}

type Compositor struct {
	width  int
	height int
	title  string

	titleFace     font.Face
	captionFace   font.Face
	watermarkFace font.Face

	badge image.Image
}

// New prepares the per-run drawing resources. A failure here means no frame
// can be produced at all and the run must not start.
func New(width, height int, opts Options) (*Compositor, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	h := float64(height)
	titleFace, err := newFace(bold, h*0.030)
	if err != nil {
		return nil, err
	}
	captionFace, err := newFace(regular, h*0.048)
	if err != nil {
		return nil, err
	}
	watermarkFace, err := newFace(bold, h*0.34)
	if err != nil {
		return nil, err
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	c := &Compositor{
		width:         width,
		height:        height,
		title:         title,
		titleFace:     titleFace,
		captionFace:   captionFace,
		watermarkFace: watermarkFace,
	}

	if opts.QRLink != "" {
		badge, err := newQRBadge(opts.QRLink, height/8)
		if err != nil {
			return nil, fmt.Errorf("qr badge: %w", err)
		}
		c.badge = badge
	}

	return c, nil
}

func newFace(fnt *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face at %.1fpt: %w", size, err)
	}
	return face, nil
}

// newQRBadge bakes the QR code into a translucent image once, so per-frame
// drawing stays a plain blit.
func newQRBadge(link string, size int) (image.Image, error) {
	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	src := qr.Image(size)

	faded := image.NewRGBA(src.Bounds())
	mask := image.NewUniform(color.Alpha{A: 64})
	draw.DrawMask(faded, faded.Bounds(), src, src.Bounds().Min, mask, image.Point{}, draw.Over)
	return faded, nil
}

// Render draws the complete frame for scene at intra-scene progress p into
// dst. dst must match the compositor's dimensions; its prior content is
// fully overwritten by the background layer. Layer order: gradient, waves,
// title, watermark, caption, orbit, badge.
func (c *Compositor) Render(dst *image.RGBA, scene timeline.Scene, p float64) {
	dc := gg.NewContextForRGBA(dst)

	c.drawBackground(dc, scene)
	c.drawWaves(dc, p)
	c.drawTitle(dc, p)
	c.drawWatermark(dc, scene)
	c.drawCaption(dc, scene, p)
	c.drawOrbit(dc, p)
	c.drawBadge(dc)
}

func (c *Compositor) drawBackground(dc *gg.Context, scene timeline.Scene) {
	w, h := float64(c.width), float64(c.height)

	grad := gg.NewLinearGradient(0, 0, w, h)
	grad.AddColorStop(0, scene.Palette.From)
	grad.AddColorStop(1, scene.Palette.To)

	dc.Push()
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
	dc.Pop()
}

func (c *Compositor) drawWaves(dc *gg.Context, p float64) {
	w, h := float64(c.width), float64(c.height)

	dc.Push()
	dc.SetRGBA(1, 1, 1, waveAlpha)
	for band := 0; band < waveCount; band++ {
		for s := 0; s < waveSamples; s++ {
			x := w * float64(s) / float64(waveSamples-1)
			y := WaveY(p, band, s, h)
			if s == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.LineTo(w, h)
		dc.LineTo(0, h)
		dc.ClosePath()
		dc.Fill()
	}
	dc.Pop()
}

func (c *Compositor) drawTitle(dc *gg.Context, p float64) {
	dc.Push()
	dc.SetFontFace(c.titleFace)
	dc.SetRGBA(1, 1, 1, TitleAlpha(p))
	dc.DrawStringAnchored(c.title, float64(c.width)/2, float64(c.height)*0.18, 0.5, 0.5)
	dc.Pop()
}

func (c *Compositor) drawWatermark(dc *gg.Context, scene timeline.Scene) {
	dc.Push()
	dc.SetFontFace(c.watermarkFace)
	dc.SetRGBA(1, 1, 1, 0.04)
	label := fmt.Sprintf("%02d", scene.Index+1)
	dc.DrawStringAnchored(label, float64(c.width)/2, float64(c.height)*0.82, 0.5, 0.5)
	dc.Pop()
}

func (c *Compositor) drawCaption(dc *gg.Context, scene timeline.Scene, p float64) {
	w, h := float64(c.width), float64(c.height)

	dc.Push()
	dc.SetFontFace(c.captionFace)

	lines := WrapLines(scene.Text, w*captionWidthRatio, func(s string) float64 {
		lw, _ := dc.MeasureString(s)
		return lw
	})
	n := len(lines)
	lineHeight := dc.FontHeight() * 1.5

	for j, line := range lines {
		y := h/2 + (float64(j)-float64(n-1)/2)*lineHeight + LineOffset(p, j, n, h)
		dc.SetRGBA(1, 1, 1, LineAlpha(p, j, n))
		dc.DrawStringAnchored(line, w/2, y, 0.5, 0.5)
	}
	dc.Pop()
}

func (c *Compositor) drawOrbit(dc *gg.Context, p float64) {
	w, h := float64(c.width), float64(c.height)
	cx, cy := w/2, h/2
	radius := h * 0.42

	dc.Push()
	dc.SetRGBA(1, 1, 1, ringAlpha)
	dc.SetLineWidth(h * 0.004)
	dc.DrawCircle(cx, cy, radius)
	dc.Stroke()

	for k := 0; k < satelliteCount; k++ {
		angle := SatelliteAngle(p, k)
		x := cx + radius*math.Cos(angle)
		y := cy + radius*math.Sin(angle)
		dc.SetRGBA(1, 1, 1, SatelliteAlpha(p, k))
		dc.DrawCircle(x, y, h*0.012)
		dc.Fill()
	}
	dc.Pop()
}

func (c *Compositor) drawBadge(dc *gg.Context) {
	if c.badge == nil {
		return
	}
	margin := c.height / 32
	x := c.width - c.badge.Bounds().Dx() - margin
	y := c.height - c.badge.Bounds().Dy() - margin
	dc.DrawImage(c.badge, x, y)
}
