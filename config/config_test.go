package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/player"

	. "github.com/smartystreets/goconvey/convey"
)

const playbackYaml = `
kind: playback
def:
  preset: pong-live
  tracePath: runs/7/BestAgentSimulation.pq
  pause: 25ms
  verbose: true
  addr: 127.0.0.1:9090
`

func writeConfig(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "playback.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func resolve(args ...string) (*Settings, error) {
	flags := NewFlagSet("test")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	return Resolve(flags)
}

func TestFromYaml(t *testing.T) {
	Convey("When a playback config is read", t, func() {
		cfg, err := FromYaml(writeConfig(t, playbackYaml))
		So(err, ShouldBeNil)
		So(cfg.Preset, ShouldEqual, PongLivePreset)
		So(cfg.TracePath, ShouldEqual, "runs/7/BestAgentSimulation.pq")
		So(cfg.Pause, ShouldEqual, "25ms")
		So(*cfg.Verbose, ShouldBeTrue)
		So(cfg.Save, ShouldBeNil)
	})

	Convey("When the config is of another kind", t, func() {
		_, err := FromYaml(writeConfig(t, "kind: training\ndef:\n  hyperParams: []\n"))
		So(errors.Is(err, ErrUnknownKind), ShouldBeTrue)
	})

	Convey("When the config file is missing", t, func() {
		_, err := FromYaml(filepath.Join(t.TempDir(), "nope.yaml"))
		So(err, ShouldNotBeNil)
	})
}

func TestResolve(t *testing.T) {
	Convey("When no flags are given", t, func() {
		settings, err := resolve()
		So(err, ShouldBeNil)
		So(settings.Preset.Name, ShouldEqual, AgentsPreset)
		So(settings.Layout.Name(), ShouldEqual, models.AgentLayoutName)
		So(settings.Player.Output, ShouldEqual, player.Display)
		So(settings.Player.FrameCount, ShouldEqual, player.AllFrames)
		So(settings.TracePath, ShouldEqual, "data/BestAgentSimulation.pq")
		So(settings.ChromosomePath, ShouldEqual, "data/bestAgentChromosome.bin")
		So(settings.Addr, ShouldEqual, ":8080")
	})

	Convey("When the agents preset is asked to save a bounded number of frames", t, func() {
		settings, err := resolve("--save", "--numFrames", "1000")
		So(err, ShouldBeNil)
		So(settings.Player.Output, ShouldEqual, player.Video)
		So(settings.Player.FrameCount, ShouldEqual, 1000)
	})

	Convey("When a pong preset is given agent-only flags, they are ignored", t, func() {
		settings, err := resolve("--preset", "pong-live", "--save", "--numFrames", "3")
		So(err, ShouldBeNil)
		So(settings.Player.Driver, ShouldEqual, player.DirectLoop)
		So(settings.Player.Output, ShouldEqual, player.Display)
		So(settings.Player.FrameCount, ShouldEqual, player.AllFrames)
	})

	Convey("When the pong preset is selected it always encodes", t, func() {
		settings, err := resolve("--preset", "pong")
		So(err, ShouldBeNil)
		So(settings.Player.Driver, ShouldEqual, player.Callback)
		So(settings.Player.Output, ShouldEqual, player.Video)
	})

	Convey("When a config file is given", t, func() {
		path := writeConfig(t, playbackYaml)

		Convey("Its values override the preset", func() {
			settings, err := resolve("--config", path)
			So(err, ShouldBeNil)
			So(settings.Preset.Name, ShouldEqual, PongLivePreset)
			So(settings.TracePath, ShouldEqual, "runs/7/BestAgentSimulation.pq")
			So(settings.Player.Pause, ShouldEqual, 25*time.Millisecond)
			So(settings.Player.Verbose, ShouldBeTrue)
			So(settings.Addr, ShouldEqual, "127.0.0.1:9090")
		})

		Convey("Explicit flags override the file", func() {
			settings, err := resolve("--config", path, "--preset", "agents", "--verbose=false", "--port", "7000")
			So(err, ShouldBeNil)
			So(settings.Preset.Name, ShouldEqual, AgentsPreset)
			So(settings.Player.Verbose, ShouldBeFalse)
			So(settings.Addr, ShouldEqual, ":7000")
		})
	})

	Convey("When an unknown preset is requested", t, func() {
		_, err := resolve("--preset", "foosball")
		So(errors.Is(err, ErrUnknownPreset), ShouldBeTrue)
	})
}
