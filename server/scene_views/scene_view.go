package scene_views

import (
	"html/template"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// SceneView draws the scene's shapes as svg circles and lines, and moves them per frame.
type SceneView struct {
	updates <-chan []fastview.EleUpdate
}

func NewSceneView(
	done <-chan struct{},
	frames <-chan ViewFrame,
) *SceneView {
	sv := &SceneView{}
	sv.updates = channerics.Convert(done, frames, sv.onUpdate)
	return sv
}

func (sv *SceneView) Updates() <-chan []fastview.EleUpdate {
	return sv.updates
}

// onUpdate returns the attribute changes that move every shape to its position in @vf.
// Colors and radii never change, so only geometry is sent.
func (sv *SceneView) onUpdate(vf ViewFrame) (ops []fastview.EleUpdate) {
	for _, shape := range vf.Shapes {
		update := fastview.EleUpdate{EleId: shape.ID}
		if shape.Kind == "segment" {
			update.Ops = []fastview.Op{
				{Key: "x1", Value: shape.X1},
				{Key: "y1", Value: shape.Y1},
				{Key: "x2", Value: shape.X2},
				{Key: "y2", Value: shape.Y2},
			}
		} else {
			update.Ops = []fastview.Op{
				{Key: "cx", Value: shape.CX},
				{Key: "cy", Value: shape.CY},
			}
		}
		ops = append(ops, update)
	}
	return
}

// Parse defines the "scene" template: an svg with a bounding box and one element per shape.
func (sv *SceneView) Parse(t *template.Template) (name string, err error) {
	name = "scene"
	_, err = t.Parse(`{{ define "` + name + `" }}
		<svg id="scene" xmlns="http://www.w3.org/2000/svg"
			width="{{ .Width }}px" height="{{ .Height }}px"
			style="border: 1px solid #404040; background: white;">
			{{ range .Shapes }}
				{{ if eq .Kind "segment" }}
				<line id="{{ .ID }}" x1="{{ .X1 }}" y1="{{ .Y1 }}" x2="{{ .X2 }}" y2="{{ .Y2 }}"
					stroke="{{ .Color }}" stroke-width="{{ .StrokeWidth }}" />
				{{ else }}
				<circle id="{{ .ID }}" cx="{{ .CX }}" cy="{{ .CY }}" r="{{ .R }}" fill="{{ .Color }}" />
				{{ end }}
			{{ end }}
		</svg>
		{{ end }}`)
	return
}
