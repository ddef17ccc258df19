package sim

import (
	"context"
	"fmt"
)

// Run drives the policy for at most cfg.MaxTicks ticks and collects the
// full history. Once the hard limit is reached the run continues for
// cfg.GraceTicks frozen ticks and then stops, so the terminal plateau
// shows up in plots and exports.
func (d *Driver) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := d.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		History: make([]Snapshot, 0, cfg.MaxTicks),
		Metrics: make(map[string]float64),
	}

	for _, m := range d.metrics {
		m.Reset()
	}

	grace := 0
	for i := 0; i < cfg.MaxTicks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s := d.Step()
		result.History = append(result.History, s)
		result.TicksRun++

		for _, m := range d.metrics {
			m.Observe(s)
		}
		for _, obs := range d.observers {
			obs.OnTick(s)
		}

		if s.Terminal() {
			if grace >= cfg.GraceTicks {
				break
			}
			grace++
		}
	}

	result.LimitReachedTick = d.limitTick
	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback drives the policy like Run but hands each snapshot to
// the callback instead of buffering history. Returning false stops the
// run early.
func (d *Driver) RunWithCallback(ctx context.Context, cfg Config, callback func(Snapshot) bool) error {
	if err := d.validateConfig(cfg); err != nil {
		return err
	}

	grace := 0
	for i := 0; i < cfg.MaxTicks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s := d.Step()
		if !callback(s) {
			return nil
		}

		if s.Terminal() {
			if grace >= cfg.GraceTicks {
				return nil
			}
			grace++
		}
	}

	return nil
}

func (d *Driver) validateConfig(cfg Config) error {
	if cfg.MaxTicks <= 0 {
		return fmt.Errorf("max ticks must be positive, got %d", cfg.MaxTicks)
	}
	if cfg.GraceTicks < 0 {
		return fmt.Errorf("grace ticks must be non-negative, got %d", cfg.GraceTicks)
	}
	return nil
}
