package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-errors"
)

// defaultMinRadiusFraction sizes the sudden-death shrink floor when
// arena_min_radius is left unset.
const defaultMinRadiusFraction = 0.1

type GameConfig struct {
	TickRateMs            int     `json:"tick_rate_ms"`
	RoundMaxSeconds       int     `json:"round_max_seconds"`
	ArenaInitialRadius    float64 `json:"arena_initial_radius"`
	ArenaMinRadius        float64 `json:"arena_min_radius"`
	PlayerStartingSize    float64 `json:"player_starting_size"`
	PlayerGrowthRate      float64 `json:"player_growth_rate"`
	PlayerSpinRateRad     float64 `json:"player_spin_rate_rad"`
	LaunchPowerMultiplier float64 `json:"launch_power_multiplier"`
	FrictionFactor        float64 `json:"friction_factor"`
	SuddenDeathMs         int     `json:"sudden_death_ms"`
	ArenaShrinkRate       float64 `json:"arena_shrink_rate"`
}

func (c *GameConfig) validate() error {
	el := errors.NewErrorList()

	if c.TickRateMs <= 0 {
		el.Add(fmt.Errorf("tick_rate_ms must be a positive integer"))
	}
	if c.ArenaInitialRadius <= 0 {
		el.Add(fmt.Errorf("arena_initial_radius must be positive"))
	}
	if c.ArenaMinRadius < 0 || c.ArenaMinRadius >= c.ArenaInitialRadius {
		el.Add(fmt.Errorf("arena_min_radius must be in [0, arena_initial_radius)"))
	}
	if c.PlayerStartingSize <= 0 || c.PlayerStartingSize >= c.ArenaInitialRadius {
		el.Add(fmt.Errorf("player_starting_size must be positive and smaller than the arena"))
	}
	if c.PlayerGrowthRate < 0 {
		el.Add(fmt.Errorf("player_growth_rate must not be negative"))
	}
	if c.LaunchPowerMultiplier <= 0 {
		el.Add(fmt.Errorf("launch_power_multiplier must be positive"))
	}
	if c.FrictionFactor <= 0 || c.FrictionFactor > 1 {
		el.Add(fmt.Errorf("friction_factor must be in (0, 1]"))
	}
	if c.SuddenDeathMs <= 0 {
		el.Add(fmt.Errorf("sudden_death_ms must be a positive integer"))
	}
	if c.ArenaShrinkRate < 0 {
		el.Add(fmt.Errorf("arena_shrink_rate must not be negative"))
	}
	if c.RoundMaxSeconds > 0 && c.RoundMaxSeconds*1000 <= c.SuddenDeathMs {
		el.Add(fmt.Errorf("round_max_seconds must leave room after sudden_death_ms"))
	}

	return el.Err()
}

func (c *GameConfig) buildEngine() *arena.Engine {
	minRadius := c.ArenaMinRadius
	if minRadius == 0 {
		minRadius = c.ArenaInitialRadius * defaultMinRadiusFraction
	}

	return arena.NewEngine(arena.Tuning{
		ArenaInitialRadius: c.ArenaInitialRadius,
		ArenaMinRadius:     minRadius,
		PlayerStartingSize: c.PlayerStartingSize,
		GrowthRate:         c.PlayerGrowthRate,
		SpinRate:           c.PlayerSpinRateRad,
		LaunchPower:        c.LaunchPowerMultiplier,
		FrictionFactor:     c.FrictionFactor,
		ShrinkRate:         c.ArenaShrinkRate,
		SuddenDeathAfter:   time.Duration(c.SuddenDeathMs) * time.Millisecond,
	})
}

func (c *GameConfig) tickInterval() time.Duration {
	return time.Duration(c.TickRateMs) * time.Millisecond
}

func (c *GameConfig) roundCap() time.Duration {
	return time.Duration(c.RoundMaxSeconds) * time.Second
}
