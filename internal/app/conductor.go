package app

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"

	"github.com/coreman2200/ledmatrix/internal/config"
	"github.com/coreman2200/ledmatrix/internal/diagnostics"
	"github.com/coreman2200/ledmatrix/internal/matrix"
	"github.com/coreman2200/ledmatrix/internal/render"
	"github.com/coreman2200/ledmatrix/internal/tests"
)

// UseTestPattern paints kind on every panel instead of the widgets.
func (c *Core) UseTestPattern(kind tests.Kind) {
	if kind == tests.None {
		c.Eng.Source = nil
		return
	}
	runners := make([]*tests.Runner, len(c.Eng.Drivers))
	for i := range runners {
		runners[i] = tests.NewRunner(tests.Plan{Kind: kind})
	}
	c.Eng.Source = func(panel int, g *matrix.Grid) {
		r := runners[panel]
		if !r.Step(g) {
			log.Debug().Str("pattern", string(r.Kind())).Int("panel", panel).Msg("test pattern restarts")
			r.Step(g)
		}
	}
}

// Run renders a frame now and then on every tick until ctx is done. Write
// failures are logged and reported; the next tick redraws everything.
func (c *Core) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = config.DefaultInterval
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		c.Step()
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

// Step renders a single frame and reports its failures.
func (c *Core) Step() {
	err := c.Eng.RenderOnce()
	log.Trace().Uint64("frame", c.Eng.FrameID()).Float64("total_ms", c.Eng.Last.TotalMS).Msg("frame")
	if err == nil {
		return
	}
	errs := []error{err}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	}
	for _, e := range errs {
		var pe *render.PanelError
		if errors.As(e, &pe) {
			log.Warn().Err(pe.Err).Int("panel", pe.Panel).Msg("frame write failed")
			continue
		}
		log.Warn().Err(e).Msg("frame failed")
	}
	if c.OnDiag != nil {
		for _, d := range diagnostics.FromError(err) {
			c.OnDiag(d)
		}
	}
}

// Close puts the modules to sleep when configured and releases them.
func (c *Core) Close() error {
	return c.closeSessions(c.SleepOnExit)
}

func (c *Core) closeSessions(sleep bool) error {
	var errs []error
	for i, s := range c.Sessions {
		if sleep && i < len(c.modules) {
			if err := c.modules[i].Halt(); err != nil {
				log.Warn().Err(err).Int("panel", i).Msg("sleep failed")
			}
		}
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ShowImage draws img across the panels, side by side: panel i shows the
// 9 pixel wide strip starting at x = 9*i. Modules receive it through their
// display.Drawer; other outputs get the converted canvas.
func (c *Core) ShowImage(img image.Image) error {
	canvases := make([]matrix.Grid, len(c.Eng.Drivers))
	var errs []error
	for i, drv := range c.Eng.Drivers {
		sp := img.Bounds().Min.Add(image.Pt(i*matrix.Width, 0))
		canvases[i] = matrix.GridFromImage(img, sp)
		var err error
		if d, ok := drv.(display.Drawer); ok {
			err = d.Draw(d.Bounds(), img, sp)
		} else {
			err = drv.Write(canvases[i])
		}
		if err != nil {
			errs = append(errs, &render.PanelError{Panel: i, Err: err})
		}
	}
	if c.Eng.Preview != nil {
		c.Eng.Preview.Publish(c.Eng.FrameID(), canvases)
	}
	return errors.Join(errs...)
}
