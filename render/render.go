// Package render draws orthographic projections of the arm skeleton as PNG images.
package render

import (
	"bufio"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"go.viam.com/rx160/kinematics"
	"go.viam.com/rx160/referenceframe"
)

// View is a projection plane.
type View int

// Supported views. All lays the three projections side by side.
const (
	Side View = iota
	Top
	Front
	All
)

func (v View) String() string {
	switch v {
	case Top:
		return "top"
	case Front:
		return "front"
	case All:
		return "all"
	default:
		return "side"
	}
}

// ParseView parses a view name, in English or Spanish. An empty name means Side.
func ParseView(name string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "side", "lateral", "xz":
		return Side, nil
	case "top", "superior", "planta", "xy":
		return Top, nil
	case "front", "frontal", "yz":
		return Front, nil
	case "all", "todas", "3d":
		return All, nil
	}
	return Side, errors.Errorf("unknown view %q", name)
}

// Options sizes the output image.
type Options struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
	Title  string
}

// DefaultOptions is a 6x6 inch image at 96 dpi.
var DefaultOptions = Options{Width: 6 * vg.Inch, Height: 6 * vg.Inch, DPI: 96}

var (
	armColor   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	jointColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

// axes returns the two coordinates drawn for a view and their labels.
func (v View) axes(p r3.Vector) (float64, float64) {
	switch v {
	case Top:
		return p.X, p.Y
	case Front:
		return p.Y, p.Z
	default:
		return p.X, p.Z
	}
}

func (v View) labels() (string, string) {
	switch v {
	case Top:
		return "x (mm)", "y (mm)"
	case Front:
		return "y (mm)", "z (mm)"
	default:
		return "x (mm)", "z (mm)"
	}
}

// Plot builds the projection of a polyline of arm points onto a single view. Both axes share
// one scale so link lengths are not distorted.
func Plot(points []r3.Vector, view View, title string) (*plot.Plot, error) {
	if view == All {
		return nil, errors.New("a single plot cannot hold every view")
	}
	if len(points) == 0 {
		return nil, errors.New("nothing to draw")
	}
	pts := make(plotter.XYs, len(points))
	for i, p := range points {
		pts[i].X, pts[i].Y = view.axes(p)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text, p.Y.Label.Text = view.labels()
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(3)
	line.LineStyle.Color = armColor
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(4)
	scatter.GlyphStyle.Color = jointColor
	p.Add(line, scatter)

	squareRange(p, pts)
	return p, nil
}

// squareRange gives both axes the same span, centred on the data, with a 10% margin.
func squareRange(p *plot.Plot, pts plotter.XYs) {
	xmin, xmax, ymin, ymax := plotter.XYRange(pts)
	span := math.Max(xmax-xmin, ymax-ymin)
	if span == 0 {
		span = 1
	}
	half := span * 0.55
	cx, cy := (xmin+xmax)/2, (ymin+ymax)/2
	p.X.Min, p.X.Max = cx-half, cx+half
	p.Y.Min, p.Y.Max = cy-half, cy+half
}

// WritePNG draws the points in the requested view and writes a PNG to w.
func WritePNG(w io.Writer, points []r3.Vector, view View, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = DefaultOptions.Width, DefaultOptions.Height
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultOptions.DPI
	}
	c := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	dc := draw.New(c)

	if view == All {
		views := []View{Top, Side, Front}
		plots := make([][]*plot.Plot, 1)
		for _, v := range views {
			p, err := Plot(points, v, v.String())
			if err != nil {
				return err
			}
			plots[0] = append(plots[0], p)
		}
		tiles := draw.Tiles{Rows: 1, Cols: len(views), PadX: vg.Millimeter, PadY: vg.Millimeter}
		canvases := plot.Align(plots, tiles, dc)
		for i, p := range plots[0] {
			p.Draw(canvases[0][i])
		}
	} else {
		p, err := Plot(points, view, opts.Title)
		if err != nil {
			return err
		}
		p.Draw(dc)
	}

	bw := bufio.NewWriter(w)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return errors.Wrap(err, "cannot write png")
	}
	return bw.Flush()
}

// Pose renders the arm at joint angles q, in degrees.
func Pose(w io.Writer, q []float64, links referenceframe.Links, view View, opts Options) error {
	points, err := kinematics.JointPoints(q, links)
	if err != nil {
		return err
	}
	return WritePNG(w, points, view, opts)
}
