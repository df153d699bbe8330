package match

import "time"

const DefaultTickInterval = 50 * time.Millisecond

type RunnerOpt func(*Runner)

// WithTickInterval sets the time between simulation ticks.
func WithTickInterval(d time.Duration) RunnerOpt {
	return func(r *Runner) {
		r.tickInterval = d
	}
}

// WithRoundCap makes the runner force a round over once it has run for d.
// Zero disables the cap.
func WithRoundCap(d time.Duration) RunnerOpt {
	return func(r *Runner) {
		r.roundMax = d
	}
}
