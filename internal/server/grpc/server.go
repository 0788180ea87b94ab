// Package grpc exposes dictation readiness over the standard gRPC health
// protocol so supervisors can tell whether a speech model is loaded.
package grpc

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/emmett/voxtype/internal/logger"
	"github.com/emmett/voxtype/internal/models"
)

// Health service names, one per model kind
const (
	ASRService = "voxtype.asr"
	LLMService = "voxtype.llm"
)

// Server wraps the gRPC server and the health service
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	port       int
	log        *logger.Logger
}

// Config holds server configuration
type Config struct {
	Port int
}

// NewServer creates a new gRPC server. Model services start NOT_SERVING.
func NewServer(cfg Config) *Server {
	s := &Server{
		grpcServer: grpc.NewServer(),
		health:     health.NewServer(),
		port:       cfg.Port,
		log:        logger.Named("grpc"),
	}

	// Register services
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ASRService, healthpb.HealthCheckResponse_NOT_SERVING)
	s.health.SetServingStatus(LLMService, healthpb.HealthCheckResponse_NOT_SERVING)

	return s
}

// ModelChanged tracks model slots: a kind is SERVING only while its
// session is loaded
func (s *Server) ModelChanged(kind models.Kind, path string, loaded bool) {
	service := ASRService
	if kind == models.KindLLM {
		service = LLMService
	}
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if loaded {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
	s.log.Debug().Str("service", service).Str("path", path).Str("status", status.String()).Msg("health updated")
}

// Status reports the current status of service
func (s *Server) Status(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

// Start starts the gRPC server
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}

	s.log.Info().Int("port", s.port).Msg("gRPC health server listening")
	return s.Serve(lis)
}

// Serve accepts connections on lis until Stop
func (s *Server) Serve(lis net.Listener) error {
	if err := s.grpcServer.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("gRPC server failed: %w", err)
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
