package fcs

// FlightCondition carries the scheduling variables a Modifier's gain or
// mapping curve can be keyed on: Mach, KTAS, alpha, beta, Nx, Ny, Nz,
// altitude, dynamic pressure.
type FlightCondition struct {
	Mach               float64
	KTAS               float64
	AlphaRad           float64
	BetaRad            float64
	Nx, Ny, Nz         float64
	AltitudeM          float64
	DynamicPressurePa  float64
}

// GainKey names one of the scheduling variables a curve is keyed on.
type GainKey int

const (
	KeyMach GainKey = iota
	KeyKTAS
	KeyAlpha
	KeyBeta
	KeyNx
	KeyNy
	KeyNz
	KeyAlt
	KeyQ
)

func (fc FlightCondition) value(key GainKey) float64 {
	switch key {
	case KeyMach:
		return fc.Mach
	case KeyKTAS:
		return fc.KTAS
	case KeyAlpha:
		return fc.AlphaRad
	case KeyBeta:
		return fc.BetaRad
	case KeyNx:
		return fc.Nx
	case KeyNy:
		return fc.Ny
	case KeyNz:
		return fc.Nz
	case KeyAlt:
		return fc.AltitudeM
	case KeyQ:
		return fc.DynamicPressurePa
	default:
		return 0
	}
}

// Curve1D looks up a scalar output for a scalar input, e.g. by linear
// interpolation over a breakpoint table. Kept as a function type so
// callers can back it with whatever table representation they like,
// the same pattern aero.CoefficientFn uses for aerodynamic tables.
type Curve1D func(x float64) float64

// Modifier is one step of a declared-order modifier chain applied to a
// single input stream's signal.
type Modifier interface {
	Apply(signal float64, fc FlightCondition) float64
}

// ScalarGain multiplies the signal by a constant.
type ScalarGain struct {
	Gain float64
}

func (m ScalarGain) Apply(signal float64, _ FlightCondition) float64 {
	return signal * m.Gain
}

// ClampGain clamps the signal to [Min, Max].
type ClampGain struct {
	Min, Max float64
}

func (m ClampGain) Apply(signal float64, _ FlightCondition) float64 {
	if signal < m.Min {
		return m.Min
	}
	if signal > m.Max {
		return m.Max
	}
	return signal
}

// GainCurve multiplies the signal by Curve(flightCondition[Key]).
type GainCurve struct {
	Key   GainKey
	Curve Curve1D
}

func (m GainCurve) Apply(signal float64, fc FlightCondition) float64 {
	if m.Curve == nil {
		return signal
	}
	return signal * m.Curve(fc.value(m.Key))
}

// MappingCurve replaces the signal with Curve(flightCondition[Key]),
// keyed the same way as GainCurve.
type MappingCurve struct {
	Key   GainKey
	Curve Curve1D
}

func (m MappingCurve) Apply(_ float64, fc FlightCondition) float64 {
	if m.Curve == nil {
		return 0
	}
	return m.Curve(fc.value(m.Key))
}

// SAS is the reserved stability-augmentation modifier slot (a no-op
// until a real augmentation law is wired in).
type SAS struct{}

func (SAS) Apply(signal float64, _ FlightCondition) float64 {
	return signal
}
