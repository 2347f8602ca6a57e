package messages

// PumpCommandToggle is the only action accepted on the command topic.
const PumpCommandToggle = "toggle"

// PumpCommand arrives on the pump command topic.
// CommandID is optional; when present it is used to drop QoS1 redeliveries.
type PumpCommand struct {
	CommandID string `json:"command_id,omitempty"`
	Action    string `json:"action"`
}
