// video encodes rendered frames into a Motion-JPEG AVI file.
package video

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"log"
	"os"
	"path/filepath"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/raster"

	"github.com/icza/mjpeg"
)

const (
	// DefaultPath is where save mode writes the animation.
	DefaultPath = "data/animation.avi"
	// FPS is the fixed output rate.
	FPS = 60
	// Width of the encoded frames in pixels; height follows the scene's aspect ratio.
	Width = 800
	// JPEG quality of each frame.
	quality = 90
)

// Sink appends every frame it is handed to an AVI file.
type Sink struct {
	path   string
	canvas *raster.Canvas
	aw     mjpeg.AviWriter
	buf    bytes.Buffer
	frames int
}

// NewSink creates the video file at @path, sized for scenes with @bounds.
// The file is only valid once Close has been called.
// A missing output directory yields an error satisfying errors.Is(err, fs.ErrNotExist).
func NewSink(path string, bounds models.Bounds) (*Sink, error) {
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("video: output directory: %w", err)
	}

	canvas := raster.NewCanvas(bounds, Width)
	aw, err := mjpeg.New(path, int32(canvas.Width), int32(canvas.Height), FPS)
	if err != nil {
		return nil, fmt.Errorf("video: create %s: %w", path, err)
	}

	return &Sink{
		path:   path,
		canvas: canvas,
		aw:     aw,
	}, nil
}

// Draw rasterizes @frame and appends it to the video.
func (sink *Sink) Draw(ctx context.Context, frame models.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sink.buf.Reset()
	img := sink.canvas.Draw(frame)
	if err := jpeg.Encode(&sink.buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("video: encode frame %d: %w", frame.Index, err)
	}
	if err := sink.aw.AddFrame(sink.buf.Bytes()); err != nil {
		return fmt.Errorf("video: add frame %d: %w", frame.Index, err)
	}
	sink.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (sink *Sink) Frames() int {
	return sink.frames
}

// Close finalizes the AVI headers and index.
func (sink *Sink) Close() error {
	if err := sink.aw.Close(); err != nil {
		return fmt.Errorf("video: finalize %s: %w", sink.path, err)
	}
	log.Printf("video: wrote %d frames at %d fps to %s", sink.frames, FPS, sink.path)
	return nil
}
