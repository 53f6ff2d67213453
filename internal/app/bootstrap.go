package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledmatrix/internal/config"
	"github.com/coreman2200/ledmatrix/internal/diagnostics"
	"github.com/coreman2200/ledmatrix/internal/driver/sim"
	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/ledmatrix"
	"github.com/coreman2200/ledmatrix/internal/render"
	"github.com/coreman2200/ledmatrix/internal/widget"
	"github.com/coreman2200/ledmatrix/internal/ws"
)

// ErrNoModules is returned when hardware output was requested but no
// module is attached.
var ErrNoModules = errors.New("no LED matrix modules found")

// Core is everything the render loop needs.
type Core struct {
	Eng      *render.Engine
	Sessions []*ledmatrix.Session
	Panels   []ws.PanelInfo

	// modules holds one driver per session, in the same order.
	modules []*ledmatrix.Panel

	SleepOnExit bool
	// OnDiag receives a diagnostic for every failure in the loop.
	OnDiag func(diagnostics.Diagnostic)
}

type HWConfig struct {
	// Sim draws on console drivers instead of attached modules.
	Sim    bool
	SimOut io.Writer

	Directory *ledmatrix.Directory
}

// BuildWidget creates the widget a setup block selects.
func BuildWidget(s config.WidgetSetup, src widget.Sources) (widget.Widget, error) {
	switch s.Kind {
	case config.KindBattery:
		return widget.NewBattery(src.Battery), nil
	case config.KindCPU:
		return widget.NewCPU(src.CPU, s.MergeThreads), nil
	case config.KindMemory:
		return widget.NewMemory(src.Memory, s.Swap), nil
	case config.KindNetwork:
		return widget.NewNetwork(src.Network, s.Devices, src.Now), nil
	case config.KindClock:
		return widget.NewClock(src.Now), nil
	}
	return nil, fmt.Errorf("unknown widget kind %q", s.Kind)
}

// BuildPlacements creates one widget per configured placement, in order.
func BuildPlacements(cfg *config.Config, src widget.Sources) ([]layout.Placement, error) {
	out := make([]layout.Placement, 0, len(cfg.Widgets))
	for i, wc := range cfg.Widgets {
		w, err := BuildWidget(wc.Setup, src)
		if err != nil {
			return nil, fmt.Errorf("widget %d: %w", i, err)
		}
		out = append(out, layout.Placement{Panel: wc.Panel, X: wc.X, Y: wc.Y, Widget: w})
	}
	return out, nil
}

// PanelCount is the number of panels the configuration draws on, at least 1.
func PanelCount(cfg *config.Config) int {
	n := 1
	for _, w := range cfg.Widgets {
		if w.Panel+1 > n {
			n = w.Panel + 1
		}
	}
	return n
}

// InitCore opens the outputs, sends the startup commands and validates the
// layout against the panels that were found.
func InitCore(cfg *config.Config, src widget.Sources, hw HWConfig) (*Core, error) {
	mode, err := ledmatrix.ParseDrawMode(cfg.DrawMode)
	if err != nil {
		return nil, err
	}
	placements, err := BuildPlacements(cfg, src)
	if err != nil {
		return nil, err
	}

	c := &Core{SleepOnExit: cfg.SleepOnExit}
	var drivers []render.Driver
	if hw.Sim {
		out := hw.SimOut
		if out == nil {
			out = os.Stdout
		}
		for i := 0; i < PanelCount(cfg); i++ {
			name := fmt.Sprintf("sim%d", i)
			drivers = append(drivers, &sim.Driver{Name: name, Out: out})
			c.Panels = append(c.Panels, ws.PanelInfo{Name: name})
		}
	} else {
		dir := hw.Directory
		if dir == nil {
			dir = ledmatrix.NewDirectory()
		}
		sessions, err := dir.Detect()
		if len(sessions) == 0 {
			if err != nil {
				return nil, err
			}
			return nil, ErrNoModules
		}
		if err != nil {
			log.Warn().Int("opened", len(sessions)).Msg("continuing with the modules that opened")
		}
		c.Sessions = sessions
		for _, s := range sessions {
			m := ledmatrix.NewPanel(s, mode)
			c.modules = append(c.modules, m)
			drivers = append(drivers, m)
			info := ws.PanelInfo{Name: s.Info.Name, Session: s.ID.String()}
			if s.Firmware != (ledmatrix.Version{}) {
				info.Firmware = s.Firmware.String()
			}
			c.Panels = append(c.Panels, info)
		}
	}

	eng, err := render.NewEngine(placements, drivers)
	if err != nil {
		_ = c.closeSessions(false)
		return nil, err
	}
	c.Eng = eng

	// Modules are only woken once the layout is known to fit them.
	for i, s := range c.Sessions {
		if err := s.SetBrightness(uint8(cfg.Brightness)); err != nil {
			log.Warn().Err(err).Int("panel", i).Msg("set brightness failed")
		}
		if err := s.Wake(); err != nil {
			log.Warn().Err(err).Int("panel", i).Msg("wake failed")
		}
	}
	log.Info().Int("panels", len(drivers)).Int("widgets", len(placements)).Str("draw_mode", mode.String()).Msg("core ready")
	return c, nil
}
