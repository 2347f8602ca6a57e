package dashboard

import (
	"net"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HealthServiceName is the service name reported by the gRPC health check.
const HealthServiceName = "dashboard"

// GRPCHealth serves grpc.health.v1.Health for orchestrators that health-check over gRPC.
type GRPCHealth struct {
	server *grpc.Server
	health *health.Server
}

// NewGRPCHealthServer reports SERVING for the whole server and for HealthServiceName.
func NewGRPCHealthServer() *GRPCHealth {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_SERVING)

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &GRPCHealth{server: srv, health: hs}
}

// Serve blocks serving on lis until Stop is called.
func (g *GRPCHealth) Serve(lis net.Listener) error {
	log.Info().Str("addr", lis.Addr().String()).Msg("gRPC health listening")
	return g.server.Serve(lis)
}

// Stop reports NOT_SERVING to watchers, then stops the server gracefully.
func (g *GRPCHealth) Stop() {
	g.health.Shutdown()
	g.server.GracefulStop()
}
