package config

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/player"
)

// Preset is a named bundle of playback settings, one per way of viewing a simulation.
type Preset struct {
	Name   string
	Layout models.Layout
	Player player.Config
	// AcceptsFlags reports whether --save and --numFrames apply.
	AcceptsFlags bool
	// PrintChromosome prints the best chromosome before playback.
	PrintChromosome bool
}

// Preset names.
const (
	AgentsPreset   = "agents"
	PongPreset     = "pong"
	PongLivePreset = "pong-live"
)

// ErrUnknownPreset is returned for a preset name that is not registered.
var ErrUnknownPreset error = errors.New("unknown preset")

var presets = map[string]Preset{
	// Flying agents: callback driven, prints the chromosome and every frame's fields,
	// displays unless --save, optionally bounded by --numFrames.
	AgentsPreset: {
		Name:   AgentsPreset,
		Layout: models.AgentLayout{},
		Player: player.Config{
			Driver:     player.Callback,
			Output:     player.Display,
			FrameCount: player.AllFrames,
			Interval:   16 * time.Millisecond,
			Verbose:    true,
		},
		AcceptsFlags:    true,
		PrintChromosome: true,
	},
	// Pong: callback driven over the whole trace, always encoded to video.
	PongPreset: {
		Name:   PongPreset,
		Layout: models.PaddleLayout{},
		Player: player.Config{
			Driver:     player.Callback,
			Output:     player.Video,
			FrameCount: player.AllFrames,
			Interval:   16 * time.Millisecond,
		},
	},
	// Pong, live: walks the whole trace in a loop, redrawing and pausing per frame.
	PongLivePreset: {
		Name:   PongLivePreset,
		Layout: models.PaddleLayout{},
		Player: player.Config{
			Driver:     player.DirectLoop,
			Output:     player.Display,
			FrameCount: player.AllFrames,
			Pause:      10 * time.Millisecond,
		},
	},
}

// PresetByName returns the registered preset @name.
func PresetByName(name string) (Preset, error) {
	preset, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%q (want one of %v): %w", name, PresetNames(), ErrUnknownPreset)
	}
	return preset, nil
}

// PresetNames lists the registered presets, sorted.
func PresetNames() (names []string) {
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
