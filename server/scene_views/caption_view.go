package scene_views

import (
	"html/template"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// CaptionView shows the title, the frame counter, and the unpacked fields of the current frame.
type CaptionView struct {
	updates <-chan []fastview.EleUpdate
}

func NewCaptionView(
	done <-chan struct{},
	frames <-chan ViewFrame,
) *CaptionView {
	cv := &CaptionView{}
	cv.updates = channerics.Convert(done, frames, cv.onUpdate)
	return cv
}

func (cv *CaptionView) Updates() <-chan []fastview.EleUpdate {
	return cv.updates
}

func fieldID(name string) string {
	return "field-" + name
}

func (cv *CaptionView) onUpdate(vf ViewFrame) (ops []fastview.EleUpdate) {
	ops = append(ops, fastview.EleUpdate{
		EleId: "frame-counter",
		Ops:   []fastview.Op{{Key: fastview.TextContent, Value: vf.Counter}},
	})
	for _, field := range vf.Fields {
		ops = append(ops, fastview.EleUpdate{
			EleId: fieldID(field.Name),
			Ops:   []fastview.Op{{Key: fastview.TextContent, Value: field.Value}},
		})
	}
	return
}

// Parse defines the "caption" template and registers the "fieldID" func it uses.
func (cv *CaptionView) Parse(t *template.Template) (name string, err error) {
	name = "caption"
	_, err = t.Funcs(template.FuncMap{"fieldID": fieldID}).Parse(`{{ define "` + name + `" }}
		<div style="font-family: monospace; padding: 8px 0;">
			<h3>{{ .Title }}</h3>
			<div id="frame-counter">{{ .Counter }}</div>
			<table>
			{{ range .Fields }}
				<tr><td>{{ .Name }}</td><td id="{{ fieldID .Name }}" style="text-align: right;">{{ .Value }}</td></tr>
			{{ end }}
			</table>
		</div>
		{{ end }}`)
	return
}
