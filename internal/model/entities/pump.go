package entities

// PumpState is the on/off form of the pump flag used in events.
type PumpState string

const (
	PumpOff PumpState = "off"
	PumpOn  PumpState = "on"
)

func PumpStateFromBool(on bool) PumpState {
	if on {
		return PumpOn
	}
	return PumpOff
}

func (p PumpState) Bool() bool { return p == PumpOn }
