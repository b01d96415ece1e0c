/*
Playback replays the best agent of a genetic learning run from its recorded simulation
trace. The trace is a parquet file of state vectors, one per simulation step; each preset
knows how to lay one out as shapes (flying agents and their target, or a game of pong).
Frames are either shown live in the browser, pushed over a websocket as svg attribute
updates, or encoded to an mjpeg avi for sharing. The agents preset also prints the
agent's chromosome, the weights the learning run evolved.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/chromosome"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/config"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/player"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/plot"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/server"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/trace"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/video"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

func runApp(ctx context.Context, args []string) (err error) {
	flags := config.NewFlagSet("playback")
	if err = flags.Parse(args); err != nil {
		return
	}

	var settings *config.Settings
	if settings, err = config.Resolve(flags); err != nil {
		return
	}

	layout := settings.Layout
	var tr *models.Trace
	if tr, err = trace.Load(settings.TracePath, len(layout.FieldNames())); err != nil {
		return
	}
	log.Printf("loaded %d records from %s", tr.Len(), settings.TracePath)

	if settings.PlotPath != "" {
		return writePlot(tr, layout, settings.PlotPath)
	}

	if settings.Preset.PrintChromosome {
		if err = printChromosome(settings.ChromosomePath); err != nil {
			return
		}
	}

	var p *player.Player
	if p, err = player.NewPlayer(tr, layout, settings.Player); err != nil {
		return
	}
	log.Printf("%s: %d frames, %s driver, %s output",
		settings.Preset.Name, p.Frames(), settings.Player.Driver, settings.Player.Output)

	if settings.Player.Output == player.Video {
		return saveVideo(ctx, p, settings.VideoPath)
	}
	return display(ctx, p, settings.Addr)
}

func writePlot(tr *models.Trace, layout models.Layout, path string) (err error) {
	var f *os.File
	if f, err = os.Create(path); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err = plot.Fields(tr, layout, f); err != nil {
		return
	}
	log.Println("wrote trace chart to", path)
	return
}

func printChromosome(path string) error {
	best, err := chromosome.Load(path)
	if err != nil {
		return err
	}
	fmt.Println("BEST CHROMOSOME:")
	fmt.Println(chromosome.Format(best))
	return nil
}

func saveVideo(ctx context.Context, p *player.Player, path string) error {
	sink, err := video.NewSink(path, p.Scene().Bounds)
	if err != nil {
		return err
	}
	if err = p.Run(ctx, sink); err != nil {
		return err
	}
	log.Printf("saved %d frames to %s", sink.Frames(), path)
	return nil
}

// display plays into the live display, then keeps serving the last frame until @ctx ends.
func display(ctx context.Context, p *player.Player, addr string) error {
	feed := server.NewFeed(p.Snapshot())
	srv, err := server.NewServer(ctx, addr, feed, p)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.Serve(groupCtx)
	})
	group.Go(func() error {
		// Frames are only consumed by a connected page, so playback waits for one.
		log.Printf("open http://%s to watch playback", pageHost(addr))
		if err := p.Run(groupCtx, feed); err != nil {
			return err
		}
		log.Println("playback finished, serving the last frame until interrupted")
		return nil
	})
	return group.Wait()
}

func pageHost(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := runApp(ctx, os.Args[1:])
	switch {
	case err == nil, errors.Is(err, pflag.ErrHelp):
	case errors.Is(err, context.Canceled):
		log.Println("interrupted")
	default:
		stop()
		log.Fatal(err)
	}
}
