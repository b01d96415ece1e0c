// player steps a loaded trace through a scene, one record per frame, and hands
// each rendered frame to a sink (a live display or a video encoder).
package player

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/atomic_float"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"

	channerics "github.com/niceyeti/channerics/channels"
)

// Driver selects how playback is driven.
type Driver int

const (
	// Callback renders frames 0..F-1 on behalf of an animation driver, paced by
	// Config.Interval when displaying, unpaced when encoding.
	Callback Driver = iota
	// DirectLoop walks the whole trace, redrawing and pausing after every frame.
	// It only ever displays.
	DirectLoop
)

func (d Driver) String() string {
	if d == DirectLoop {
		return "direct-loop"
	}
	return "callback"
}

// Output selects where rendered frames go.
type Output int

const (
	Display Output = iota
	Video
)

func (o Output) String() string {
	if o == Video {
		return "video"
	}
	return "display"
}

// AllFrames requests every record of the trace.
const AllFrames = -1

// Config is the playback configuration.
type Config struct {
	Driver Driver
	Output Output
	// FrameCount is the requested number of frames, or AllFrames. Only the Callback driver honors it.
	FrameCount int
	// Interval is the nominal time between callback frames while displaying.
	Interval time.Duration
	// Pause is the delay after each direct-loop redraw.
	Pause time.Duration
	// Verbose logs the unpacked fields of every frame.
	Verbose bool
}

// State is the playback state: NotStarted -> Playing -> Finished.
type State int32

const (
	NotStarted State = iota
	Playing
	Finished
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	}
	return "not-started"
}

// Sink consumes rendered frames. Draw must not retain the frame's scene beyond
// the call unless it is finished with it; the player hands over a snapshot.
type Sink interface {
	Draw(ctx context.Context, frame models.Frame) error
	Close() error
}

// ErrDirectLoopVideo is returned when the direct loop is configured to encode video,
// which it never does.
var ErrDirectLoopVideo error = errors.New("the direct loop driver only supports display output")

// Player holds the loaded trace and the mutable scene whose shapes are moved by Render.
type Player struct {
	trace    *models.Trace
	layout   models.Layout
	scene    *models.Scene
	cfg      Config
	frames   int
	fields   []models.Field
	current  atomic.Int64
	state    atomic.Int32
	progress *atomic_float.AtomicFloat64
}

// NewPlayer builds the scene for @layout and resolves the effective frame count.
func NewPlayer(
	trace *models.Trace,
	layout models.Layout,
	cfg Config,
) (*Player, error) {
	if cfg.Driver == DirectLoop && cfg.Output == Video {
		return nil, ErrDirectLoopVideo
	}
	if arity := len(layout.FieldNames()); trace.Arity() != arity {
		return nil, fmt.Errorf("layout %s expects %d fields, trace has %d: %w",
			layout.Name(), arity, trace.Arity(), models.ErrArityMismatch)
	}

	frames := trace.Len()
	if cfg.Driver == Callback {
		frames = ClampFrames(trace.Len(), cfg.FrameCount)
	}

	// Until the first render the fields are named but zero.
	fields := make([]models.Field, 0, trace.Arity())
	for _, name := range layout.FieldNames() {
		fields = append(fields, models.Field{Name: name})
	}

	player := &Player{
		trace:    trace,
		layout:   layout,
		scene:    layout.NewScene(),
		cfg:      cfg,
		frames:   frames,
		fields:   fields,
		progress: atomic_float.NewAtomicFloat64(0),
	}
	player.current.Store(-1)
	return player, nil
}

// ClampFrames returns the effective frame count for a trace of @n records:
// n when @requested is unspecified (negative) or larger than n, else requested.
func ClampFrames(n, requested int) int {
	if requested < 0 || requested > n {
		return n
	}
	return requested
}

// Frames returns F, the number of frames Run will render.
func (p *Player) Frames() int {
	return p.frames
}

// Scene returns the live scene. Callers outside the playback goroutine should use Snapshot.
func (p *Player) Scene() *models.Scene {
	return p.scene
}

// Layout returns the layout the player renders with.
func (p *Player) Layout() models.Layout {
	return p.layout
}

// State returns the playback state. Safe for concurrent use.
func (p *Player) State() State {
	return State(p.state.Load())
}

// Current returns the index of the last rendered frame, or -1. Safe for concurrent use.
func (p *Player) Current() int {
	return int(p.current.Load())
}

// Progress returns the fraction of frames rendered so far. Safe for concurrent use.
func (p *Player) Progress() float64 {
	return p.progress.AtomicRead()
}

// Render moves the scene's shapes to the fields of record @index.
// On error the scene is left as it was.
func (p *Player) Render(index int) error {
	vec, err := p.trace.At(index)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	p.fields = p.layout.Apply(p.scene, vec)
	if p.cfg.Verbose {
		log.Println(formatFields(index, p.fields))
	}

	p.current.Store(int64(index))
	if p.frames > 0 {
		p.progress.AtomicSet(float64(index+1) / float64(p.frames))
	}
	return nil
}

// Snapshot returns the current scene as a frame that later renders will not mutate.
func (p *Player) Snapshot() models.Frame {
	return models.Frame{
		Index:  p.Current(),
		Total:  p.frames,
		Fields: append([]models.Field(nil), p.fields...),
		Scene:  p.scene.Clone(),
	}
}

// Run plays the trace into @sink with the configured driver, then closes the sink.
// It returns ctx.Err() if the context ends before the last frame.
func (p *Player) Run(ctx context.Context, sink Sink) (err error) {
	defer func() {
		if closeErr := sink.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close sink: %w", closeErr)
		}
	}()

	p.state.Store(int32(Playing))
	switch p.cfg.Driver {
	case DirectLoop:
		err = p.runDirectLoop(ctx, sink)
	default:
		err = p.runCallback(ctx, sink)
	}
	if err == nil {
		p.state.Store(int32(Finished))
	}
	return
}

// runCallback renders 0..F-1, each in response to a tick of the animation timer.
// Encoding does not wait on the timer: the output rate is fixed by the encoder.
func (p *Player) runCallback(ctx context.Context, sink Sink) error {
	if p.cfg.Output == Video || p.cfg.Interval <= 0 {
		for index := 0; index < p.frames; index++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := p.update(ctx, sink, index); err != nil {
				return err
			}
		}
		return nil
	}

	tickCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticks := channerics.NewTicker(tickCtx.Done(), p.cfg.Interval)
	for index := 0; index < p.frames; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return ctx.Err()
			}
			if err := p.update(ctx, sink, index); err != nil {
				return err
			}
			index++
		}
	}
	return nil
}

// runDirectLoop renders every record in order, redrawing and pausing after each.
func (p *Player) runDirectLoop(ctx context.Context, sink Sink) error {
	for index := 0; index < p.trace.Len(); index++ {
		if err := p.update(ctx, sink, index); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.cfg.Pause):
		}
	}
	return nil
}

func (p *Player) update(ctx context.Context, sink Sink, index int) error {
	if err := p.Render(index); err != nil {
		return err
	}
	if err := sink.Draw(ctx, p.Snapshot()); err != nil {
		return fmt.Errorf("draw frame %d: %w", index, err)
	}
	return nil
}

func formatFields(index int, fields []models.Field) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "frame %d:", index)
	for _, field := range fields {
		fmt.Fprintf(&sb, " %s=%g", field.Name, field.Value)
	}
	return sb.String()
}
