package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Widget kinds accepted in a setup block.
const (
	KindBattery = "battery"
	KindCPU     = "cpu"
	KindMemory  = "memory"
	KindNetwork = "network"
	KindClock   = "clock"
)

// WidgetSetup is a tagged variant: Kind selects the widget, and only the
// fields belonging to that kind may be set.
type WidgetSetup struct {
	Kind string `yaml:"kind"`

	MergeThreads bool     `yaml:"merge_threads,omitempty"` // cpu
	Swap         bool     `yaml:"swap,omitempty"`          // memory
	Devices      []string `yaml:"devices,omitempty"`       // network
}

// kindFields lists the parameters each kind accepts besides "kind".
var kindFields = map[string]map[string]bool{
	KindBattery: {},
	KindClock:   {},
	KindCPU:     {"merge_threads": true},
	KindMemory:  {"swap": true},
	KindNetwork: {"devices": true},
}

func (w *WidgetSetup) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: widget setup must be a mapping", n.Line)
	}
	type plain WidgetSetup
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	allowed, ok := kindFields[p.Kind]
	if !ok {
		return fmt.Errorf("line %d: unknown widget kind %q", n.Line, p.Kind)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if key != "kind" && !allowed[key] {
			return fmt.Errorf("line %d: %q is not a %s parameter", n.Content[i].Line, key, p.Kind)
		}
	}
	*w = WidgetSetup(p)
	return nil
}

// WidgetCfg places one widget.
type WidgetCfg struct {
	Panel int         `yaml:"panel"`
	X     int         `yaml:"x"`
	Y     int         `yaml:"y"`
	Setup WidgetSetup `yaml:"setup"`
}

type Config struct {
	Brightness  int           `yaml:"brightness"`
	Interval    time.Duration `yaml:"interval"`
	DrawMode    string        `yaml:"draw_mode,omitempty"` // "brightness" | "pattern"
	SleepOnExit bool          `yaml:"sleep_on_exit,omitempty"`
	PreviewAddr string        `yaml:"preview_addr,omitempty"`

	Widgets []WidgetCfg `yaml:"widgets"`
}

// DefaultInterval is the render tick when none is configured.
const DefaultInterval = 500 * time.Millisecond

// Default is the layout used without a configuration file: system meters
// on the first panel and the clock on the second.
func Default() *Config {
	return &Config{
		Brightness: 120,
		Interval:   DefaultInterval,
		Widgets: []WidgetCfg{
			{Panel: 0, X: 0, Y: 2, Setup: WidgetSetup{Kind: KindCPU}},
			{Panel: 0, X: 0, Y: 20, Setup: WidgetSetup{Kind: KindMemory}},
			{Panel: 0, X: 0, Y: 25, Setup: WidgetSetup{Kind: KindNetwork}},
			{Panel: 0, X: 0, Y: 30, Setup: WidgetSetup{Kind: KindBattery}},
			{Panel: 1, X: 0, Y: 2, Setup: WidgetSetup{Kind: KindClock}},
		},
	}
}

// Validate checks values that do not depend on the attached hardware.
func (c *Config) Validate() error {
	var errs []error
	if c.Brightness < 0 || c.Brightness > 255 {
		errs = append(errs, fmt.Errorf("brightness %d out of range 0..255", c.Brightness))
	}
	if c.Interval < 0 {
		errs = append(errs, fmt.Errorf("interval %s is negative", c.Interval))
	}
	switch c.DrawMode {
	case "", "brightness", "pattern":
	default:
		errs = append(errs, fmt.Errorf("unknown draw_mode %q", c.DrawMode))
	}
	return errors.Join(errs...)
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
