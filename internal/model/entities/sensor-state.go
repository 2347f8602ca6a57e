package entities

// ChartPoints is the length of the moisture trend series (one point per hour).
const ChartPoints = 24

// SensorState is the record of simulated readings shown on the dashboard.
type SensorState struct {
	Moisture    int              `json:"moisture"`    // %
	Humidity    int              `json:"humidity"`    // %
	Temperature int              `json:"temperature"` // °C
	Pump        bool             `json:"pump"`
	Chart       [ChartPoints]int `json:"chart"` // read-only after init
}

// InitialSensorState returns the readings the service starts with.
func InitialSensorState() SensorState {
	return SensorState{
		Moisture:    55,
		Humidity:    43,
		Temperature: 28,
		Pump:        false,
		Chart: [ChartPoints]int{
			55, 60, 58, 62, 65, 70, 72, 68, 60, 57, 55, 52,
			50, 48, 47, 49, 52, 56, 60, 65, 66, 64, 60, 58,
		},
	}
}
