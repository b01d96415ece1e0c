package video

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSink(t *testing.T) {
	Convey("When frames are encoded to a video file", t, func() {
		path := filepath.Join(t.TempDir(), "animation.avi")
		layout := models.PaddleLayout{}
		scene := layout.NewScene()

		sink, err := NewSink(path, scene.Bounds)
		So(err, ShouldBeNil)

		for i := 0; i < 3; i++ {
			fields := layout.Apply(scene, models.StateVector{0.1 * float64(i), 0, 0.1, 0, 0, 0})
			err := sink.Draw(context.Background(), models.Frame{
				Index:  i,
				Total:  3,
				Fields: fields,
				Scene:  scene.Clone(),
			})
			So(err, ShouldBeNil)
		}
		So(sink.Frames(), ShouldEqual, 3)
		So(sink.Close(), ShouldBeNil)

		data, err := os.ReadFile(path)
		So(err, ShouldBeNil)
		So(bytes.HasPrefix(data, []byte("RIFF")), ShouldBeTrue)
		So(bytes.Contains(data[:16], []byte("AVI ")), ShouldBeTrue)
	})

	Convey("When the output directory does not exist", t, func() {
		path := filepath.Join(t.TempDir(), "missing", "animation.avi")
		_, err := NewSink(path, models.AgentLayout{}.NewScene().Bounds)
		So(errors.Is(err, fs.ErrNotExist), ShouldBeTrue)
	})

	Convey("When the context is already cancelled", t, func() {
		path := filepath.Join(t.TempDir(), "animation.avi")
		scene := models.AgentLayout{}.NewScene()
		sink, err := NewSink(path, scene.Bounds)
		So(err, ShouldBeNil)
		defer sink.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = sink.Draw(ctx, models.Frame{Scene: scene})
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
		So(sink.Frames(), ShouldEqual, 0)
	})
}
