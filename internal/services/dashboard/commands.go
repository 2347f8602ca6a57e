package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/LeonardoBeccarini/sdcc_dashboard/internal/model"
	"github.com/LeonardoBeccarini/sdcc_dashboard/internal/model/messages"
	"github.com/LeonardoBeccarini/sdcc_dashboard/pkg/dedup"
)

// ErrUnknownAction is returned for commands other than "toggle".
var ErrUnknownAction = errors.New("unknown pump command action")

// CommandHandler applies pump commands received over MQTT.
type CommandHandler struct {
	svc     *Service
	deduper *dedup.Deduper
}

// NewCommandHandler creates a handler toggling svc. deduper may be nil.
func NewCommandHandler(svc *Service, deduper *dedup.Deduper) *CommandHandler {
	return &CommandHandler{svc: svc, deduper: deduper}
}

// Handle matches rabbitmq.MessageHandler.
func (h *CommandHandler) Handle(topic string, message mqtt.Message) error {
	var cmd model.PumpCommand
	if err := json.Unmarshal(message.Payload(), &cmd); err != nil {
		return fmt.Errorf("invalid pump command on %s: %w", topic, err)
	}

	// rejected commands are not recorded, so a corrected resend with the
	// same id still applies
	if strings.ToLower(strings.TrimSpace(cmd.Action)) != messages.PumpCommandToggle {
		return fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}

	if h.deduper != nil && !h.deduper.ShouldProcess(cmd.CommandID) {
		log.Debug().Str("command_id", cmd.CommandID).Msg("duplicate pump command ignored")
		return nil
	}

	on := h.svc.TogglePump(context.Background(), SourceMQTT)
	log.Info().Str("command_id", cmd.CommandID).Bool("pump", on).Msg("pump command applied")
	return nil
}
