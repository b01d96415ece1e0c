package scene_views

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/server/fastview"

	. "github.com/smartystreets/goconvey/convey"
)

func agentFrame(index int, vec models.StateVector) models.Frame {
	layout := models.AgentLayout{}
	scene := layout.NewScene()
	fields := layout.Apply(scene, vec)
	return models.Frame{Index: index, Total: 3, Fields: fields, Scene: scene}
}

func pongFrame() models.Frame {
	layout := models.PaddleLayout{}
	scene := layout.NewScene()
	fields := layout.Apply(scene, models.StateVector{0.1, -0.2, 0, 0, 0.3, -0.3})
	return models.Frame{Index: 0, Total: 1, Fields: fields, Scene: scene}
}

func opsByKey(ops []fastview.Op) map[string]string {
	byKey := map[string]string{}
	for _, op := range ops {
		byKey[op.Key] = op.Value
	}
	return byKey
}

func TestConvert(t *testing.T) {
	Convey("Given an agent frame", t, func() {
		vf := Convert(agentFrame(1, models.StateVector{0, 0, 0, 0, 50, -25}))

		Convey("The counter is one-based", func() {
			So(vf.Counter, ShouldEqual, "frame 2/3")
		})

		Convey("World coordinates are projected with y flipped", func() {
			So(vf.Width, ShouldEqual, 800)
			So(vf.Height, ShouldEqual, 800)
			So(vf.Shapes, ShouldHaveLength, 2)

			agent := vf.Shapes[0]
			So(agent.ID, ShouldEqual, models.AgentID)
			So(agent.CX, ShouldEqual, "400.00")
			So(agent.CY, ShouldEqual, "400.00")
			So(agent.R, ShouldEqual, "20.00")

			target := vf.Shapes[1]
			So(target.CX, ShouldEqual, "600.00")
			So(target.CY, ShouldEqual, "500.00")
		})

		Convey("Fields are formatted in order", func() {
			So(vf.Fields, ShouldHaveLength, 6)
			So(vf.Fields[4].Value, ShouldEqual, "50.0000")
			So(vf.Fields[5].Value, ShouldEqual, "-25.0000")
		})
	})

	Convey("Given a frame that has not been rendered", t, func() {
		frame := agentFrame(0, models.StateVector{0, 0, 0, 0, 0, 0})
		frame.Index = -1
		So(Convert(frame).Counter, ShouldEqual, "frame -/3")
	})
}

func TestSceneView(t *testing.T) {
	Convey("Scene updates", t, func() {
		sv := &SceneView{}

		Convey("Circles move by center", func() {
			updates := sv.onUpdate(Convert(agentFrame(0, models.StateVector{0, 0, 0, 0, 50, -25})))
			So(updates, ShouldHaveLength, 2)
			So(updates[1].EleId, ShouldEqual, models.TargetID)
			ops := opsByKey(updates[1].Ops)
			So(ops, ShouldResemble, map[string]string{"cx": "600.00", "cy": "500.00"})
		})

		Convey("Segments move by endpoints", func() {
			updates := sv.onUpdate(Convert(pongFrame()))
			So(updates, ShouldHaveLength, 3)
			for _, update := range updates {
				ops := opsByKey(update.Ops)
				if update.EleId == models.BallID {
					So(ops, ShouldContainKey, "cx")
					continue
				}
				So(ops, ShouldContainKey, "x1")
				So(ops, ShouldContainKey, "y2")
				So(ops, ShouldNotContainKey, "cx")
			}
		})
	})

	Convey("Scene template renders every shape", t, func() {
		sv := &SceneView{}
		tmpl := template.New("test")
		name, err := sv.Parse(tmpl)
		So(err, ShouldBeNil)
		So(name, ShouldEqual, "scene")

		var buf bytes.Buffer
		So(tmpl.ExecuteTemplate(&buf, name, Convert(pongFrame())), ShouldBeNil)
		html := buf.String()
		So(html, ShouldContainSubstring, `<line id="paddle0"`)
		So(html, ShouldContainSubstring, `<line id="paddle1"`)
		So(html, ShouldContainSubstring, `<circle id="ball"`)
	})
}

func TestCaptionView(t *testing.T) {
	Convey("Caption updates carry the counter and every field", t, func() {
		cv := &CaptionView{}
		updates := cv.onUpdate(Convert(agentFrame(2, models.StateVector{1, 2, 3, 4, 5, 6})))
		So(updates, ShouldHaveLength, 7)
		So(updates[0].EleId, ShouldEqual, "frame-counter")
		So(updates[0].Ops[0], ShouldResemble, fastview.Op{Key: fastview.TextContent, Value: "frame 3/3"})
		for _, update := range updates[1:] {
			So(update.EleId, ShouldStartWith, "field-")
		}
	})

	Convey("Caption template has an element per field", t, func() {
		cv := &CaptionView{}
		tmpl := template.New("test")
		name, err := cv.Parse(tmpl)
		So(err, ShouldBeNil)

		var buf bytes.Buffer
		vf := Convert(agentFrame(0, models.StateVector{1, 2, 3, 4, 5, 6}))
		So(tmpl.ExecuteTemplate(&buf, name, vf), ShouldBeNil)
		for _, field := range vf.Fields {
			So(strings.Contains(buf.String(), `id="field-`+field.Name+`"`), ShouldBeTrue)
		}
	})
}
