package game

import "math"

// Button masks for InputFrame.Buttons. The bit layout mirrors a standard
// pad: d-pad in the low nibble, face buttons next, start up at bit 12.
const (
	ButtonUp    uint16 = 1 << 0
	ButtonDown  uint16 = 1 << 1
	ButtonLeft  uint16 = 1 << 2
	ButtonRight uint16 = 1 << 3
	ButtonA     uint16 = 1 << 4 // jump / confirm
	ButtonB     uint16 = 1 << 5 // shoot / back
	ButtonX     uint16 = 1 << 6 // melee
	ButtonStart uint16 = 1 << 12
)

// InputFrame is one tick of sampled input for one player slot. Axes are
// -1..1 with y up. The simulation derives press edges itself, so callers
// only report held state.
type InputFrame struct {
	AxisX   float64
	AxisY   float64
	Buttons uint16
}

func (f InputFrame) held(b uint16) bool {
	return f.Buttons&b != 0
}

// resolveAxes combines the analog stick with the digital d-pad. Per axis,
// whichever source has the larger magnitude wins; the d-pad takes ties.
func resolveAxes(f InputFrame) (float64, float64) {
	dx := 0.0
	if f.held(ButtonRight) {
		dx = 1.0
	} else if f.held(ButtonLeft) {
		dx = -1.0
	}
	dy := 0.0
	if f.held(ButtonUp) {
		dy = 1.0
	} else if f.held(ButtonDown) {
		dy = -1.0
	}

	x := dx
	if math.Abs(f.AxisX) > math.Abs(dx) {
		x = f.AxisX
	}
	y := dy
	if math.Abs(f.AxisY) > math.Abs(dy) {
		y = f.AxisY
	}
	return x, y
}

// RescaleDeadzone maps a raw stick axis through a dead zone: inside it the
// axis reads zero, outside it the remaining travel is stretched back to the
// full -1..1 range. Used by input shells before building InputFrames.
func RescaleDeadzone(v, deadzone float64) float64 {
	a := math.Abs(v)
	if a < deadzone {
		return 0
	}
	scaled := (a - deadzone) / (1 - deadzone)
	if scaled > 1 {
		scaled = 1
	}
	if v < 0 {
		return -scaled
	}
	return scaled
}
