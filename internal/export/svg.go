// Package export renders frames and trajectories as standalone SVG.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/ballsim/internal/analysis"
	"github.com/san-kum/ballsim/internal/material"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/vecmath"
	"github.com/san-kum/ballsim/internal/viz"
)

const background = "#0a0a0a"

// FrameOptions sizes the picture and sets the temperature scale used to
// tint balls.
type FrameOptions struct {
	Width, Height int
	Ambient       float64
	MaxTemp       float64
	WallColor     material.Color
}

func DefaultFrameOptions(cfg sim.Config) FrameOptions {
	return FrameOptions{
		Width:     int(2 * cfg.CenterX),
		Height:    int(2 * cfg.CenterY),
		Ambient:   cfg.Ambient,
		MaxTemp:   cfg.MaxTemperature,
		WallColor: cfg.Wall.BaseColor,
	}
}

// FrameToSVG draws the active edges of every layer and every ball with a
// spin tick. Debug frames also get velocity vectors.
func FrameToSVG(f *sim.Frame, opts FrameOptions) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, background)

	fmt.Fprintf(&sb, "<g stroke=\"%s\" stroke-width=\"3\" stroke-linecap=\"round\">\n", opts.WallColor.Hex())
	for _, l := range f.Layers {
		n := len(l.Vertices)
		for i := 0; i < n; i++ {
			if i < len(l.Active) && !l.Active[i] {
				continue
			}
			a, b := l.Vertices[i], l.Vertices[(i+1)%n]
			fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\"/>\n", a[0], a[1], b[0], b[1])
		}
	}
	sb.WriteString("</g>\n")

	for i := range f.Balls {
		b := &f.Balls[i]
		color := b.Material.BaseColor
		if span := opts.MaxTemp - opts.Ambient; span > 0 {
			color = color.Heated((b.Temperature - opts.Ambient) / span)
		}
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
			b.Position[0], b.Position[1], b.Radius, color.Hex())

		// spin tick
		tip := b.Position.Add(vecmath.Rotate(physics.Vec2{b.Radius * 0.8, 0}, b.Angle))
		fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\" stroke-width=\"1\"/>\n",
			b.Position[0], b.Position[1], tip[0], tip[1], background)

		if f.Debug {
			end := b.Position.Add(b.Velocity.Mul(0.1))
			fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"#00ff00\" stroke-width=\"1\"/>\n",
				b.Position[0], b.Position[1], end[0], end[1])
		}
	}

	if f.Debug {
		fmt.Fprintf(&sb, "<text x=\"10\" y=\"20\" fill=\"#ffffff\" font-family=\"monospace\" font-size=\"14\">t=%.2fs balls=%d E=%.0f</text>\n",
			f.Time, len(f.Balls), f.Energy.Total())
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// CanvasToSVG converts a braille canvas to SVG dots.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="#00ff00">
`, width, height, width, height, background)

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if !canvas.IsSet(col*2+dx, row*4+dy) {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws a polyline fitted to width x height. Screen-space
// paths keep y growing downward; pass flipY for math-style plots.
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string, flipY bool) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := (p.Y - minY) / rangeY * float64(height)
		if flipY {
			y = float64(height) - y
		}
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
