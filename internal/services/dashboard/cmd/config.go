package main

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr            string
	AdminAddr       string // empty disables /healthz, /readyz, /metrics
	GRPCHealthAddr  string // empty disables the gRPC health service
	LogLevel        string
	LogFormat       string // console | json
	ShutdownTimeout time.Duration

	// MQTT (optional, disabled when RabbitHost is empty)
	RabbitHost       string
	RabbitPort       int
	RabbitUser       string
	RabbitPassword   string
	ClientID         string
	PumpStateTopic   string
	PumpCommandTopic string // empty disables the command consumer
	PublishTimeout   time.Duration
	ConnectRetries   int
	ConnectMaxWait   time.Duration

	// circuit breaker in front of the broker
	CBFails    int
	CBOpen     time.Duration
	CBInterval time.Duration

	DedupTTL time.Duration
	DedupMax int
}

func (c Config) MQTTEnabled() bool { return c.RabbitHost != "" }

func getenv(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

// getenvOpt is like getenv but an explicitly empty variable disables the
// feature instead of selecting the default.
func getenvOpt(k, d string) string {
	if v, ok := os.LookupEnv(k); ok {
		return strings.TrimSpace(v)
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvMs(k string, d int) time.Duration {
	return time.Duration(getenvInt(k, d)) * time.Millisecond
}

func loadConfig() Config {
	return Config{
		Addr:            getenv("DASHBOARD_ADDR", "127.0.0.1:5000"),
		AdminAddr:       getenvOpt("ADMIN_ADDR", "127.0.0.1:9100"),
		GRPCHealthAddr:  getenv("GRPC_HEALTH_ADDR", ""),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFormat:       getenv("LOG_FORMAT", "console"),
		ShutdownTimeout: getenvMs("SHUTDOWN_TIMEOUT_MS", 5000),

		RabbitHost:       getenv("RABBITMQ_HOST", ""),
		RabbitPort:       getenvInt("RABBITMQ_PORT", 1883),
		RabbitUser:       getenv("RABBITMQ_USER", "guest"),
		RabbitPassword:   getenv("RABBITMQ_PASSWORD", "guest"),
		ClientID:         getenv("MQTT_CLIENT_ID", "dashboard"),
		PumpStateTopic:   getenv("PUMP_STATE_TOPIC", "event/pumpState"),
		PumpCommandTopic: getenvOpt("PUMP_COMMAND_TOPIC", "pump/command"),
		PublishTimeout:   getenvMs("PUBLISH_TIMEOUT_MS", 3000),
		ConnectRetries:   getenvInt("MQTT_CONNECT_RETRIES", 5),
		ConnectMaxWait:   getenvMs("MQTT_CONNECT_MAX_ELAPSED_MS", 10000),

		CBFails:    getenvInt("CB_FAILS", 3),
		CBOpen:     getenvMs("CB_OPEN_MS", 10000),
		CBInterval: getenvMs("CB_INTERVAL_MS", 60000),

		DedupTTL: getenvMs("DEDUP_TTL_MS", 600000),
		DedupMax: getenvInt("DEDUP_MAX", 10000),
	}
}
