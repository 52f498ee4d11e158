// pkg/flight/glider.go
package flight

import "math"

// SpeedModel tracks a glider's forward speed. Diving trades height for
// speed, climbing and banking bleed it off.
type SpeedModel struct {
	// MinimumSpeed may be negative, letting the glider slide backwards
	// after a stall.
	MinimumSpeed            float64
	MaximumSpeed            float64
	DiveSpeedIncreaseScalar float64
	RiseSpeedDecreaseScalar float64
	BankLossStartAngle      float64
	BankLossFullAngle       float64
	MaxTurnSpeedLossFactor  float64

	speed float64
}

// DefaultSpeedModel returns the stock glider speed tuning.
func DefaultSpeedModel() SpeedModel {
	return SpeedModel{
		MinimumSpeed:            -100,
		MaximumSpeed:            3000,
		DiveSpeedIncreaseScalar: 4,
		RiseSpeedDecreaseScalar: 6,
		BankLossStartAngle:      10,
		BankLossFullAngle:       60,
		MaxTurnSpeedLossFactor:  0.5,
	}
}

// Speed returns the current forward speed.
func (m *SpeedModel) Speed() float64 {
	return m.speed
}

// AddSpeed changes the speed by delta, clamped to the model's range, and
// returns the new speed.
func (m *SpeedModel) AddSpeed(delta float64) float64 {
	m.speed = clampRange(m.speed+delta, m.MinimumSpeed, m.MaximumSpeed)
	return m.speed
}

// ApplyInclination adjusts speed from the nose's vertical component. It is
// applied once per tick, not scaled by time.
func (m *SpeedModel) ApplyInclination(forwardZ float64) {
	if forwardZ <= 0 {
		m.AddSpeed(-forwardZ * m.DiveSpeedIncreaseScalar)
		return
	}
	m.AddSpeed(-forwardZ * m.RiseSpeedDecreaseScalar)
}

// ApplyBankLoss removes speed proportional to how hard the glider is banked.
// Banks below BankLossStartAngle are free.
func (m *SpeedModel) ApplyBankLoss(rollDeg, deltaTime float64) {
	bank := math.Abs(rollDeg)
	if bank <= m.BankLossStartAngle {
		return
	}

	span := m.BankLossFullAngle - m.BankLossStartAngle
	factor := 1.0
	if span > 0 {
		factor = clampRange((bank-m.BankLossStartAngle)/span, 0, 1)
	}

	m.AddSpeed(-m.speed * factor * m.MaxTurnSpeedLossFactor * deltaTime)
}

// Update runs one tick of the speed model.
func (m *SpeedModel) Update(forwardZ, rollDeg, deltaTime float64) {
	m.ApplyInclination(forwardZ)
	m.ApplyBankLoss(rollDeg, deltaTime)
}

// LiftModel produces lift while the nose is being pulled up.
type LiftModel struct {
	PitchScalar float64
	LiftScalar  float64

	lastPitch float64
	primed    bool
}

// DefaultLiftModel returns the stock lift tuning.
func DefaultLiftModel() LiftModel {
	return LiftModel{PitchScalar: 0.2, LiftScalar: 30}
}

// Reset records pitch as the previous frame's pitch.
func (l *LiftModel) Reset(pitch float64) {
	l.lastPitch = pitch
	l.primed = true
}

// Lift returns the lift magnitude for this frame. Lift is only produced
// while pitching up with positive forward speed.
func (l *LiftModel) Lift(currentPitch, forwardSpeed float64) float64 {
	if !l.primed {
		l.Reset(currentPitch)
	}
	deltaPitch := currentPitch - l.lastPitch
	l.lastPitch = currentPitch

	if deltaPitch <= 0 || forwardSpeed <= 0 {
		return 0
	}

	coefficient := clampRange(deltaPitch*l.PitchScalar, 0, 1)
	return forwardSpeed * coefficient * l.LiftScalar
}

// AirControl scales steering authority with forward speed.
type AirControl struct {
	// FullControlSpeed is the speed at which steering reaches full
	// authority. Zero or less disables the scaling.
	FullControlSpeed float64
	Minimum          float64
}

// Factor returns the steering multiplier for speed.
func (a AirControl) Factor(speed float64) float64 {
	if a.FullControlSpeed <= 0 {
		return 1
	}
	return clampRange(speed/a.FullControlSpeed, a.Minimum, 1)
}

func clampRange(v, low, high float64) float64 {
	if low > high {
		low, high = high, low
	}
	return math.Max(low, math.Min(high, v))
}
