package spacedrep

// EasyBonus scales the interval on an Easy response.
const EasyBonus = 1.3

// DefaultIntervalModifier is applied to every interval increase except a
// plain Good on a reviewing question.
const DefaultIntervalModifier = 1.0

// HardIntervalFactor scales the interval on a Hard response.
const HardIntervalFactor = 1.2

// Easiness adjustments, as fractions of the current efactor.
const (
	EasyEFactorGain     = 0.15
	HardEFactorPenalty  = 0.15
	AgainEFactorPenalty = 0.2
)

// Params tunes the scheduler.
type Params struct {
	EasyBonus        float64
	IntervalModifier float64
}

// DefaultParams returns the stock scheduling parameters.
func DefaultParams() Params {
	return Params{
		EasyBonus:        EasyBonus,
		IntervalModifier: DefaultIntervalModifier,
	}
}
