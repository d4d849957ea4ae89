// Package overlay composites the metadata band onto generated cover images:
// a bottom gradient, title and date, a fear/greed badge, and an optional
// price sparkline.
package overlay

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"time"

	_ "image/gif" // registered for base image decoding

	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"

	"github.com/paarad/03-coincerto/internal/core/ports"
)

const (
	canvasSize = 512
	bandHeight = 92
	sparkW     = 240
	sparkH     = 56
)

// Compositor implements the overlay capability.
type Compositor struct {
	httpClient *http.Client
	log        *logrus.Logger
}

// NewCompositor constructs a Compositor.
func NewCompositor(log *logrus.Logger) *Compositor {
	if log == nil {
		log = logrus.New()
	}
	return &Compositor{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// ApplyOverlay fetches the base image, resizes it to a 512x512 cover crop,
// draws the overlay, and encodes the result.
func (c *Compositor) ApplyOverlay(ctx context.Context, req ports.OverlayRequest) ([]byte, error) {
	base, err := c.fetchImage(ctx, req.BaseImageURL)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(canvasSize, canvasSize)
	dc.DrawImage(coverResize(base, canvasSize, canvasSize), 0, 0)

	drawBand(dc)
	drawText(dc, req.Title, req.Date)
	if len(req.Prices) > 0 {
		drawSparkline(dc, req.Prices)
	}
	drawFearGreedBadge(dc, req.FearGreed)

	var buf bytes.Buffer
	switch req.Format {
	case "jpeg":
		err = jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: 85})
	default:
		err = png.Encode(&buf, dc.Image())
	}
	if err != nil {
		return nil, fmt.Errorf("overlay: encode %s: %w", req.Format, err)
	}
	return buf.Bytes(), nil
}

func (c *Compositor) fetchImage(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("overlay: build image request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overlay: fetch base image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overlay: fetch base image: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("overlay: decode base image: %w", err)
	}
	return img, nil
}

// coverResize scales the image to fill w x h, cropping the overflow around
// the center.
func coverResize(src image.Image, w, h int) image.Image {
	sb := src.Bounds()
	srcW, srcH := sb.Dx(), sb.Dy()
	if srcW == 0 || srcH == 0 {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}

	scale := float64(w) / float64(srcW)
	if s := float64(h) / float64(srcH); s > scale {
		scale = s
	}
	scaledW := int(float64(srcW)*scale + 0.5)
	scaledH := int(float64(srcH)*scale + 0.5)

	scaled := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, sb, draw.Src, nil)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	offX := (scaledW - w) / 2
	offY := (scaledH - h) / 2
	draw.Draw(out, out.Bounds(), scaled, image.Pt(offX, offY), draw.Src)
	return out
}

func drawBand(dc *gg.Context) {
	bandY := float64(canvasSize - bandHeight)
	grad := gg.NewLinearGradient(0, float64(canvasSize), 0, bandY)
	grad.AddColorStop(0, color.NRGBA{0, 0, 0, 153})
	grad.AddColorStop(1, color.NRGBA{0, 0, 0, 0})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, bandY, canvasSize, bandHeight)
	dc.Fill()
}

func drawText(dc *gg.Context, title, date string) {
	bandY := float64(canvasSize - bandHeight)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 24, bandY+36)
	dc.SetRGBA(1, 1, 1, 0.9)
	dc.DrawString(date, 24, bandY+72)
}

func drawSparkline(dc *gg.Context, prices []float64) {
	bandY := float64(canvasSize - bandHeight)
	x0 := float64(canvasSize - sparkW - 16)
	y0 := bandY + 18

	dc.SetRGBA(1, 1, 1, 0.06)
	dc.DrawRoundedRectangle(x0, y0, sparkW, sparkH, 8)
	dc.Fill()

	min, max := prices[0], prices[0]
	for _, v := range prices {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	const pad = 6.0
	stepX := (sparkW - pad*2) / float64(maxInt(len(prices)-1, 1))
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2.5)
	for i, v := range prices {
		x := x0 + pad + float64(i)*stepX
		y := y0 + pad + (sparkH-pad*2)*(1-(v-min)/span)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()
}

func drawFearGreedBadge(dc *gg.Context, fg int) {
	if fg < 0 {
		fg = 0
	}
	if fg > 100 {
		fg = 100
	}

	var badge color.NRGBA
	switch {
	case fg > 60:
		badge = color.NRGBA{0x16, 0xa3, 0x4a, 0xff} // greed: green
	case fg < 40:
		badge = color.NRGBA{0xdc, 0x26, 0x26, 0xff} // fear: red
	default:
		badge = color.NRGBA{0xf5, 0x9e, 0x0b, 0xff} // neutral: amber
	}

	bandY := float64(canvasSize - bandHeight)
	x := float64(canvasSize - 16 - 92)
	y := bandY - 12

	dc.SetColor(badge)
	dc.DrawRoundedRectangle(x, y, 92, 32, 16)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(fmt.Sprintf("FG %d", fg), x+46, y+16, 0.5, 0.35)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
