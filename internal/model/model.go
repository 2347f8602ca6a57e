package model

import (
	"github.com/LeonardoBeccarini/sdcc_dashboard/internal/model/entities"
	"github.com/LeonardoBeccarini/sdcc_dashboard/internal/model/messages"
)

// Aliases for the types shared by the services.

type (
	SensorState          = entities.SensorState
	PumpState            = entities.PumpState
	PumpStateChangeEvent = messages.PumpStateChangeEvent
	PumpCommand          = messages.PumpCommand
)

const (
	PumpOn  = entities.PumpOn
	PumpOff = entities.PumpOff
)
