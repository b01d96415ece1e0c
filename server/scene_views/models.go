// scene_views contains views derived from the ViewFrame view-model.
// ViewFrame is a frame with its shapes already projected into svg pixel space
// and formatted, so templates and updates use its fields directly.
package scene_views

import (
	"fmt"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"
)

// Width of the svg canvas in pixels; its height follows the scene's aspect ratio.
const svgWidth = 800.0

// ShapeView is a shape in svg coordinates. Circle and marker shapes fill CX, CY, R;
// segments fill X1, Y1, X2, Y2 and StrokeWidth.
type ShapeView struct {
	ID     string
	Kind   string
	Color  string
	CX, CY string
	R      string
	X1, Y1 string
	X2, Y2 string
	// StrokeWidth of a segment, in pixels.
	StrokeWidth string
}

// FieldView is one named field of the frame's state vector.
type FieldView struct {
	Name  string
	Value string
}

// ViewFrame is the view-model of one frame.
type ViewFrame struct {
	Title   string
	Counter string
	Width   int
	Height  int
	Shapes  []ShapeView
	Fields  []FieldView
}

// Convert projects @frame into svg space. World y grows upward, svg y downward.
func Convert(frame models.Frame) ViewFrame {
	bounds := frame.Scene.Bounds
	scale := svgWidth / bounds.Width()
	height := bounds.Height() * scale
	toSvg := func(p models.Point) (string, string) {
		return px((p.X - bounds.XMin) * scale), px((bounds.YMax - p.Y) * scale)
	}

	vf := ViewFrame{
		Title:   frame.Scene.Title,
		Counter: counter(frame),
		Width:   int(svgWidth),
		Height:  int(height),
	}

	for _, shape := range frame.Scene.Shapes() {
		sv := ShapeView{ID: shape.ID, Kind: shape.Kind.String(), Color: shape.Color}
		switch shape.Kind {
		case models.CircleShape:
			sv.CX, sv.CY = toSvg(shape.From)
			sv.R = px(shape.Radius * scale)
		case models.MarkerShape:
			sv.CX, sv.CY = toSvg(shape.From)
			sv.R = px(shape.Size / 2)
		case models.SegmentShape:
			sv.X1, sv.Y1 = toSvg(shape.From)
			sv.X2, sv.Y2 = toSvg(shape.To)
			sv.StrokeWidth = px(shape.Width)
		}
		vf.Shapes = append(vf.Shapes, sv)
	}

	for _, field := range frame.Fields {
		vf.Fields = append(vf.Fields, FieldView{
			Name:  field.Name,
			Value: fmt.Sprintf("%.4f", field.Value),
		})
	}
	return vf
}

func counter(frame models.Frame) string {
	if frame.Index < 0 {
		return fmt.Sprintf("frame -/%d", frame.Total)
	}
	return fmt.Sprintf("frame %d/%d", frame.Index+1, frame.Total)
}

func px(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
