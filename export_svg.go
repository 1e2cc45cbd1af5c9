package planta

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// svgMargin is the blank border around the plan, in meters.
const svgMargin = 0.5

// Bounds returns the world-space bounding box of every shape outline. ok is
// false for an empty scene.
func (s *Scene) Bounds() (lo, hi Vector2, ok bool) {
	lo = NewVector2(math.Inf(1), math.Inf(1))
	hi = NewVector2(math.Inf(-1), math.Inf(-1))
	for _, o := range s.objects {
		world := o.Transform()
		for _, sh := range o.Shapes {
			for _, p := range transformVertices(world.Mul4(sh.Transform()), Outline(sh.Geometry())) {
				lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
				hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
				ok = true
			}
		}
	}
	return lo, hi, ok
}

// exportView frames the whole plan at the scene's scale.
func (s *Scene) exportView() View {
	ppm := s.Camera.PixelsPerMeter
	lo, hi, ok := s.Bounds()
	if !ok {
		lo, hi = s.Camera.Position, s.Camera.Position
	}
	lo = lo.Sub(NewVector2(svgMargin, svgMargin))
	hi = hi.Add(NewVector2(svgMargin, svgMargin))
	center := lo.Add(hi).Mult(0.5)

	// a meter spans ppm/2 pixels, see View.ScreenToWorld
	w := int(math.Ceil((hi.X - lo.X) * ppm / 2))
	h := int(math.Ceil((hi.Y - lo.Y) * ppm / 2))
	return NewView(NewCamera(center.X, center.Y, ppm), max(w, 1), max(h, 1))
}

// WriteSVG renders the plan as a standalone SVG document.
func (s *Scene) WriteSVG(w io.Writer) error {
	view := s.exportView()
	r := &svgRenderer{meshes: s.meshes, transform: mgl64.Ident4()}

	r.b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&r.b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		view.Width, view.Height, view.Width, view.Height)
	r.b.WriteString("\n")
	fmt.Fprintf(&r.b, `  <rect width="100%%" height="100%%" fill="%s" />`+"\n", svgColor(RGBAFromColor(backgroundColor)))

	s.Draw(r, view, DrawVisual)

	r.b.WriteString(`</svg>` + "\n")
	_, err := io.WriteString(w, r.b.String())
	return err
}

func (s *Scene) SVG() (string, error) {
	var b strings.Builder
	if err := s.WriteSVG(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// svgRenderer is a Renderer that writes SVG elements.
type svgRenderer struct {
	meshes    *MeshStore
	view      View
	transform mgl64.Mat4
	material  Material
	b         strings.Builder
}

func (r *svgRenderer) SetView(v View)               { r.view = v }
func (r *svgRenderer) SubmitTransform(m mgl64.Mat4) { r.transform = m }
func (r *svgRenderer) SubmitMaterial(m Material)    { r.material = m }

func (r *svgRenderer) points(b Buffer, vertexCount int) []string {
	data := r.meshes.Vertices(b)
	if len(data) < vertexCount*2 {
		vertexCount = len(data) / 2
	}
	pts := transformVertices(r.transform, data[:vertexCount*2])
	out := make([]string, len(pts))
	for i, p := range pts {
		x, y := r.view.WorldToScreen(p)
		out[i] = formatFloat(x) + "," + formatFloat(y)
	}
	return out
}

// DrawTriangles emits the triangles as subpaths of one path so that shared
// edges leave no seams.
func (r *svgRenderer) DrawTriangles(b Buffer, vertexCount int) {
	pts := r.points(b, vertexCount)
	if len(pts) < 3 {
		return
	}
	var d strings.Builder
	for i := 0; i+2 < len(pts); i += 3 {
		fmt.Fprintf(&d, "M%s L%s L%s Z ", pts[i], pts[i+1], pts[i+2])
	}
	fmt.Fprintf(&r.b, `  <path d="%s" fill="%s" fill-opacity="%s" stroke="none" />`+"\n",
		strings.TrimSpace(d.String()), svgColor(r.material.Color), formatFloat(r.material.Color[3]))
}

func (r *svgRenderer) DrawOutline(b Buffer, vertexCount int) {
	pts := r.points(b, vertexCount)
	if len(pts) < 2 {
		return
	}
	dash := ""
	if r.material.Dashed {
		dash = fmt.Sprintf(` stroke-dasharray="%s %s"`, formatFloat(dashLength), formatFloat(dashGap))
	}
	fmt.Fprintf(&r.b, `  <polyline points="%s" fill="none" stroke="%s" stroke-width="%s"%s />`+"\n",
		strings.Join(pts, " "), svgColor(r.material.Color), formatFloat(outlineWidth), dash)
}

func svgColor(c RGBA) string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(math.Round(val*100)/100, 'f', -1, 64)
}
