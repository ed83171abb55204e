package server

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/desire-match/internal/config"
)

// OpsServer is the internal gRPC endpoint for orchestrator health probes.
// It starts NOT_SERVING; main flips it once storage is reachable.
type OpsServer struct {
	grpc   *grpc.Server
	health *health.Server
}

func NewOpsServer() *OpsServer {
	s := grpc.NewServer()
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)

	// enable reflection for easier debugging with grpcurl
	reflection.Register(s)

	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return &OpsServer{grpc: s, health: h}
}

func (o *OpsServer) SetServing(ok bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		status = healthpb.HealthCheckResponse_SERVING
	}
	o.health.SetServingStatus("", status)
}

// Serve blocks on lis until Stop.
func (o *OpsServer) Serve(lis net.Listener) error {
	return o.grpc.Serve(lis)
}

// StartGRPCServer listens on the configured ops address and serves.
func (o *OpsServer) StartGRPCServer(cfg *config.Config) error {
	addr := fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return o.Serve(lis)
}

// Stop reports NOT_SERVING to watchers and drains open streams.
func (o *OpsServer) Stop() {
	o.health.Shutdown()
	o.grpc.GracefulStop()
}
