// Package quality switches between quality tiers from a smoothed frame rate.
package quality

import (
	"log/slog"

	"github.com/san-kum/fireworks/internal/config"
)

// Controller applies a hysteresis band: it downgrades below DowngradeFPS and
// only upgrades again above the strictly higher UpgradeFPS.
type Controller struct {
	cfg         config.QualityConfig
	low         bool
	transitions int
	log         *slog.Logger
}

func NewController(cfg config.QualityConfig) *Controller {
	return &Controller{cfg: cfg, log: slog.With("component", "quality")}
}

// Current returns the active tier.
func (c *Controller) Current() config.Tier {
	if c.low {
		return c.cfg.Low
	}
	return c.cfg.High
}

func (c *Controller) IsLow() bool { return c.low }

func (c *Controller) Transitions() int { return c.transitions }

// Observe feeds one FPS estimate and reports the tier to use plus whether it
// changed on this call.
func (c *Controller) Observe(fps float64) (config.Tier, bool) {
	switch {
	case !c.low && fps < c.cfg.DowngradeFPS:
		c.low = true
		c.transitions++
		c.log.Warn("quality downgraded", "fps", fps, "tier", c.cfg.Low.Name, "budget", c.cfg.Low.Budget)
		return c.cfg.Low, true
	case c.low && fps > c.cfg.UpgradeFPS:
		c.low = false
		c.transitions++
		c.log.Info("quality restored", "fps", fps, "tier", c.cfg.High.Name, "budget", c.cfg.High.Budget)
		return c.cfg.High, true
	}
	return c.Current(), false
}

// Force pins the controller to a tier without counting a transition.
func (c *Controller) Force(low bool) config.Tier {
	c.low = low
	return c.Current()
}
