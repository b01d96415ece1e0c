package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"

	. "github.com/smartystreets/goconvey/convey"
)

// recorder is a sink that keeps every frame it is handed.
type recorder struct {
	frames []models.Frame
	closed bool
	// cancel, when set, is called once the recorder holds cancelAfter frames.
	cancel      context.CancelFunc
	cancelAfter int
}

func (rec *recorder) Draw(_ context.Context, frame models.Frame) error {
	rec.frames = append(rec.frames, frame)
	if rec.cancel != nil && len(rec.frames) == rec.cancelAfter {
		rec.cancel()
	}
	return nil
}

func (rec *recorder) Close() error {
	rec.closed = true
	return nil
}

func (rec *recorder) indices() (indices []int) {
	for _, frame := range rec.frames {
		indices = append(indices, frame.Index)
	}
	return
}

func agentTrace(n int) *models.Trace {
	records := make([]models.StateVector, n)
	for i := range records {
		x := float64(i)
		records[i] = models.StateVector{x, -x, 1, 1, 2 * x, 3 * x}
	}
	trace, err := models.NewTrace(records, 6)
	if err != nil {
		panic(err)
	}
	return trace
}

func TestClampFrames(t *testing.T) {
	Convey("When the effective frame count is resolved", t, func() {
		So(ClampFrames(500, AllFrames), ShouldEqual, 500)
		So(ClampFrames(500, 1000), ShouldEqual, 500)
		So(ClampFrames(500, 200), ShouldEqual, 200)
		So(ClampFrames(500, 0), ShouldEqual, 0)
		So(ClampFrames(1, AllFrames), ShouldEqual, 1)
	})
}

func TestRender(t *testing.T) {
	Convey("When a single record agent trace is rendered", t, func() {
		trace, err := models.NewTrace([]models.StateVector{{0, 0, 0, 0, 5, 5}}, 6)
		So(err, ShouldBeNil)
		player, err := NewPlayer(trace, models.AgentLayout{}, Config{FrameCount: AllFrames})
		So(err, ShouldBeNil)
		So(player.Frames(), ShouldEqual, 1)
		So(player.State(), ShouldEqual, NotStarted)

		So(player.Render(0), ShouldBeNil)
		So(player.Scene().Shape(models.AgentID).From, ShouldResemble, models.Point{X: 0, Y: 0})
		So(player.Scene().Shape(models.TargetID).From, ShouldResemble, models.Point{X: 5, Y: 5})
		So(player.Progress(), ShouldEqual, 1.0)

		Convey("Rendering one past the end fails and leaves the scene alone", func() {
			err := player.Render(1)
			So(errors.Is(err, models.ErrIndexOutOfRange), ShouldBeTrue)
			So(player.Scene().Shape(models.TargetID).From, ShouldResemble, models.Point{X: 5, Y: 5})
			So(player.Current(), ShouldEqual, 0)
		})
	})

	Convey("When every index of a trace is rendered", t, func() {
		trace := agentTrace(20)
		player, err := NewPlayer(trace, models.AgentLayout{}, Config{FrameCount: AllFrames})
		So(err, ShouldBeNil)

		for i := 0; i < trace.Len(); i++ {
			So(player.Render(i), ShouldBeNil)
			vec, _ := trace.At(i)
			So(player.Scene().Shape(models.AgentID).From, ShouldResemble, models.Point{X: vec[0], Y: vec[1]})
			So(player.Scene().Shape(models.TargetID).From, ShouldResemble, models.Point{X: vec[4], Y: vec[5]})
		}
	})

	Convey("When the same index is rendered twice", t, func() {
		player, err := NewPlayer(agentTrace(5), models.AgentLayout{}, Config{FrameCount: AllFrames})
		So(err, ShouldBeNil)

		So(player.Render(3), ShouldBeNil)
		first := player.Snapshot()
		So(player.Render(3), ShouldBeNil)
		second := player.Snapshot()
		So(second, ShouldResemble, first)
	})

	Convey("When the trace arity does not match the layout", t, func() {
		trace, _ := models.NewTrace([]models.StateVector{{1, 2, 3}}, 3)
		_, err := NewPlayer(trace, models.PaddleLayout{}, Config{})
		So(errors.Is(err, models.ErrArityMismatch), ShouldBeTrue)
	})
}

func TestRun(t *testing.T) {
	Convey("Given a 500 record trace", t, func() {
		trace := agentTrace(500)

		Convey("When more frames are requested than recorded, playback clamps", func() {
			player, err := NewPlayer(trace, models.AgentLayout{}, Config{
				Driver:     Callback,
				Output:     Video,
				FrameCount: 1000,
			})
			So(err, ShouldBeNil)
			So(player.Frames(), ShouldEqual, 500)

			rec := &recorder{}
			So(player.Run(context.Background(), rec), ShouldBeNil)
			So(len(rec.frames), ShouldEqual, 500)
			So(rec.closed, ShouldBeTrue)
			So(player.State(), ShouldEqual, Finished)
		})

		Convey("When the callback driver is asked for fewer frames, they arrive in order", func() {
			player, err := NewPlayer(trace, models.AgentLayout{}, Config{
				Driver:     Callback,
				Output:     Video,
				FrameCount: 4,
			})
			So(err, ShouldBeNil)

			rec := &recorder{}
			So(player.Run(context.Background(), rec), ShouldBeNil)
			So(rec.indices(), ShouldResemble, []int{0, 1, 2, 3})
			So(rec.frames[3].Total, ShouldEqual, 4)
			So(rec.frames[3].Scene.Shape(models.AgentID).From, ShouldResemble, models.Point{X: 3, Y: -3})

			Convey("Frames handed to the sink are not mutated by later renders", func() {
				So(rec.frames[0].Scene.Shape(models.AgentID).From, ShouldResemble, models.Point{X: 0, Y: 0})
			})
		})
	})

	Convey("When the callback driver displays at an interval", t, func() {
		player, err := NewPlayer(agentTrace(5), models.AgentLayout{}, Config{
			Driver:     Callback,
			Output:     Display,
			FrameCount: AllFrames,
			Interval:   time.Millisecond,
		})
		So(err, ShouldBeNil)

		rec := &recorder{}
		So(player.Run(context.Background(), rec), ShouldBeNil)
		So(rec.indices(), ShouldResemble, []int{0, 1, 2, 3, 4})
	})

	Convey("When the direct loop runs, it walks the whole trace regardless of frame count", t, func() {
		player, err := NewPlayer(agentTrace(6), models.AgentLayout{}, Config{
			Driver:     DirectLoop,
			Output:     Display,
			FrameCount: 2,
			Pause:      time.Microsecond,
		})
		So(err, ShouldBeNil)
		So(player.Frames(), ShouldEqual, 6)

		rec := &recorder{}
		So(player.Run(context.Background(), rec), ShouldBeNil)
		So(rec.indices(), ShouldResemble, []int{0, 1, 2, 3, 4, 5})
	})

	Convey("When the direct loop is asked to encode video", t, func() {
		_, err := NewPlayer(agentTrace(6), models.AgentLayout{}, Config{Driver: DirectLoop, Output: Video})
		So(err, ShouldEqual, ErrDirectLoopVideo)
	})

	Convey("When playback is cancelled midway", t, func() {
		player, err := NewPlayer(agentTrace(100), models.AgentLayout{}, Config{
			Driver:     DirectLoop,
			Output:     Display,
			FrameCount: AllFrames,
			Pause:      time.Millisecond,
		})
		So(err, ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		rec := &recorder{cancel: cancel, cancelAfter: 3}
		err = player.Run(ctx, rec)
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
		So(len(rec.frames), ShouldEqual, 3)
		So(rec.closed, ShouldBeTrue)
		So(player.State(), ShouldEqual, Playing)
	})
}
