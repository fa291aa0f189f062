package fcs

// Actuator is a rate- and range-limited surface drive, optionally with
// first-order lag, sitting between the commanded angle and the
// surface's published current angle.
type Actuator struct {
	MaxPositiveRateRadS float64
	MaxNegativeRateRadS float64 // magnitude; applied against decreasing commands
	MinAngleRad         float64
	MaxAngleRad         float64
	LagTimeConstantSec  float64 // 0 disables the lag filter
	NoLagTesting        bool    // testing mode: snap to commanded, still clamped

	CurrentAngleRad float64
}

// Update advances the actuator one step toward commandedAngleRad and
// returns the new current angle. In no-lag testing mode current snaps
// to commanded, clamped to limits. Otherwise the commanded delta is
// rate-limited first, and the lag filter is applied second, to the
// rate-limited target.
func (a *Actuator) Update(commandedAngleRad, dtSec float64) float64 {
	target := a.clamp(commandedAngleRad)

	if a.NoLagTesting {
		a.CurrentAngleRad = target
		return a.CurrentAngleRad
	}

	delta := target - a.CurrentAngleRad
	switch {
	case delta > 0:
		if maxStep := a.MaxPositiveRateRadS * dtSec; delta > maxStep {
			delta = maxStep
		}
	case delta < 0:
		if maxStep := a.MaxNegativeRateRadS * dtSec; -delta > maxStep {
			delta = -maxStep
		}
	}
	rateLimitedTarget := a.CurrentAngleRad + delta

	if a.LagTimeConstantSec > 0 && dtSec > 0 {
		alpha := dtSec / (a.LagTimeConstantSec + dtSec)
		rateLimitedTarget = a.CurrentAngleRad + alpha*(rateLimitedTarget-a.CurrentAngleRad)
	}

	a.CurrentAngleRad = a.clamp(rateLimitedTarget)
	return a.CurrentAngleRad
}

func (a *Actuator) clamp(v float64) float64 {
	if v < a.MinAngleRad {
		return a.MinAngleRad
	}
	if v > a.MaxAngleRad {
		return a.MaxAngleRad
	}
	return v
}
