// Package clock abstracts wall-clock access so period resolution is
// injectable. The core packages never call time.Now for "current period";
// only the scheduler and transport layer resolve "now" through a Clock.
package clock

import (
	"time"

	"go.uber.org/fx"
)

type Clock interface {
	Now() time.Time
}

var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
