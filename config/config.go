// config resolves playback settings from a preset, an optional yaml file, and
// command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/chromosome"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/player"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/trace"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/video"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Kind is the expected kind of a playback config document.
const Kind = "playback"

// OuterConfig is the config document envelope: a kind and its definition.
type OuterConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// PlaybackConfig is the definition of a playback config document.
// Unset fields leave the preset's value in place.
type PlaybackConfig struct {
	Preset         string `yaml:"preset"`
	TracePath      string `yaml:"tracepath"`
	ChromosomePath string `yaml:"chromosomepath"`
	VideoPath      string `yaml:"videopath"`
	// Save and NumFrames mirror --save and --numFrames, and like them only apply to presets accepting flags.
	Save      *bool `yaml:"save"`
	NumFrames *int  `yaml:"numframes"`
	// Interval and Pause are go durations, e.g. "16ms".
	Interval string `yaml:"interval"`
	Pause    string `yaml:"pause"`
	Verbose  *bool  `yaml:"verbose"`
	Addr     string `yaml:"addr"`
}

// ErrUnknownKind is returned when a config document is not a playback config.
var ErrUnknownKind error = errors.New("config kind is not " + Kind)

// FromYaml reads the playback config document at @path.
func FromYaml(path string) (*PlaybackConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	var err error
	if err = vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	outerConfig := &OuterConfig{}
	if err = vp.Unmarshal(outerConfig); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if outerConfig.Kind != Kind {
		return nil, fmt.Errorf("config %s: kind %q: %w", path, outerConfig.Kind, ErrUnknownKind)
	}

	// Round trip the definition through yaml so that its tags, not viper's, define the schema.
	// Viper lowercases every key, hence the lowercase tags on PlaybackConfig.
	var spec []byte
	if spec, err = yaml.Marshal(outerConfig.Def); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	innerConfig := &PlaybackConfig{}
	if err = yaml.Unmarshal(spec, innerConfig); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return innerConfig, nil
}

// Settings is everything main needs to run.
type Settings struct {
	Preset         Preset
	Layout         models.Layout
	Player         player.Config
	TracePath      string
	ChromosomePath string
	VideoPath      string
	// PlotPath, when set, charts the trace to this png instead of playing it.
	PlotPath string
	Addr     string
}

// NewFlagSet declares the command-line surface.
func NewFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String("preset", AgentsPreset, fmt.Sprintf("playback preset, one of %v", PresetNames()))
	flags.String("config", "", "optional yaml config file")
	flags.Bool("save", false, "Save animation to file, rather than showing")
	flags.Int("numFrames", player.AllFrames, "Determine the number of frames to render. If not given, render the entire simulation")
	flags.Bool("verbose", false, "log the fields of every frame")
	flags.String("host", "", "The host ip")
	flags.String("port", "8080", "The host port")
	flags.String("plot", "", "chart every field of the trace to this png and exit")
	return flags
}

// Resolve builds settings from parsed @flags: preset, then config file, then flags.
func Resolve(flags *pflag.FlagSet) (*Settings, error) {
	var file *PlaybackConfig
	if path, _ := flags.GetString("config"); path != "" {
		var err error
		if file, err = FromYaml(path); err != nil {
			return nil, err
		}
	}

	presetName, _ := flags.GetString("preset")
	if file != nil && file.Preset != "" && !flags.Changed("preset") {
		presetName = file.Preset
	}
	preset, err := PresetByName(presetName)
	if err != nil {
		return nil, err
	}

	settings := &Settings{
		Preset:         preset,
		Layout:         preset.Layout,
		Player:         preset.Player,
		TracePath:      trace.DefaultPath,
		ChromosomePath: chromosome.DefaultPath,
		VideoPath:      video.DefaultPath,
	}

	if file != nil {
		if err = settings.applyFile(file); err != nil {
			return nil, err
		}
	}
	settings.applyFlags(flags)
	return settings, nil
}

func (s *Settings) applyFile(file *PlaybackConfig) error {
	if file.TracePath != "" {
		s.TracePath = file.TracePath
	}
	if file.ChromosomePath != "" {
		s.ChromosomePath = file.ChromosomePath
	}
	if file.VideoPath != "" {
		s.VideoPath = filepath.Clean(file.VideoPath)
	}
	if file.Interval != "" {
		interval, err := time.ParseDuration(file.Interval)
		if err != nil {
			return fmt.Errorf("config interval: %w", err)
		}
		s.Player.Interval = interval
	}
	if file.Pause != "" {
		pause, err := time.ParseDuration(file.Pause)
		if err != nil {
			return fmt.Errorf("config pause: %w", err)
		}
		s.Player.Pause = pause
	}
	if file.Verbose != nil {
		s.Player.Verbose = *file.Verbose
	}
	if file.Addr != "" {
		s.Addr = file.Addr
	}
	if s.Preset.AcceptsFlags {
		if file.Save != nil {
			s.setSave(*file.Save)
		}
		if file.NumFrames != nil {
			s.Player.FrameCount = *file.NumFrames
		}
	}
	return nil
}

func (s *Settings) applyFlags(flags *pflag.FlagSet) {
	if flags.Changed("save") || flags.Changed("numFrames") {
		if s.Preset.AcceptsFlags {
			if flags.Changed("save") {
				save, _ := flags.GetBool("save")
				s.setSave(save)
			}
			if flags.Changed("numFrames") {
				s.Player.FrameCount, _ = flags.GetInt("numFrames")
			}
		} else {
			log.Printf("config: preset %s ignores --save and --numFrames", s.Preset.Name)
		}
	}
	if flags.Changed("verbose") {
		s.Player.Verbose, _ = flags.GetBool("verbose")
	}
	if s.Addr == "" || flags.Changed("host") || flags.Changed("port") {
		host, _ := flags.GetString("host")
		port, _ := flags.GetString("port")
		s.Addr = host + ":" + port
	}
	s.PlotPath, _ = flags.GetString("plot")
}

func (s *Settings) setSave(save bool) {
	if save {
		s.Player.Output = player.Video
	} else {
		s.Player.Output = player.Display
	}
}
