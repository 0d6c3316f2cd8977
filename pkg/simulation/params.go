package simulation

// Params are the constants of the pressure/flow approximation. The model is
// a fixed, deterministic stand-in for real hydraulics; DefaultParams returns
// the reference values.
type Params struct {
	// Diurnal demand factor: 1 + DiurnalMorning*sin((h-6)π/12) + DiurnalEvening*sin((h-18)π/12)
	DiurnalMorning float64
	DiurnalEvening float64

	// Multiplicative noise drawn uniformly from [NoiseMin, NoiseMax).
	NoiseMin float64
	NoiseMax float64

	MisuseOffset        float64 // added to baseDemand before scaling
	LeakOffset          float64 // added raw to the downstream demand at the leak node
	LeakPressurePenalty float64 // subtracted from the leak node's pressure

	// Root head in meters: BaseHead + HeadAmplitude*sin(hπ/12), converted with Hydrostatic.
	BaseHead      float64
	HeadAmplitude float64
	Hydrostatic   float64 // kPa per meter of head

	PipeDropM    float64 // assumed vertical drop per Pipe or Pump edge, meters
	FrictionCoef float64 // friction loss = FrictionCoef * flow²

	UnreachedPressure float64 // reported for nodes the root cannot reach
}

// DefaultParams returns the reference constants.
func DefaultParams() Params {
	return Params{
		DiurnalMorning:      0.6,
		DiurnalEvening:      0.3,
		NoiseMin:            0.9,
		NoiseMax:            1.1,
		MisuseOffset:        500,
		LeakOffset:          300,
		LeakPressurePenalty: 20,
		BaseHead:            5.0,
		HeadAmplitude:       0.5,
		Hydrostatic:         9.81,
		PipeDropM:           3.0,
		FrictionCoef:        1e-4,
		UnreachedPressure:   0,
	}
}
