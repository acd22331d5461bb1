package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/St1cky1/user-service/internal/infrastructure/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName - имя, под которым сервис виден в grpc.health.v1
const ServiceName = "user.v1.UserService"

// GRPCServer отдает только стандартный health и reflection.
// Статус переключает WatchHealth по пингу БД.
type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	log    *logger.Logger
}

func NewGRPCServer(log *logger.Logger) *GRPCServer {
	s := &GRPCServer{
		health: health.NewServer(),
		log:    log.Named("grpc"),
	}

	s.server = grpc.NewServer(
		grpc.UnaryInterceptor(s.unaryInterceptor),
	)
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	// пока не было ни одной проверки, считаем что не готовы
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return s
}

func (s *GRPCServer) Start(port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.log.Info("gRPC server listening", "port", port)
	return s.Serve(lis)
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

// SetServing переключает статус для "" и ServiceName сразу
func (s *GRPCServer) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// WatchHealth раз в interval вызывает check и обновляет статус, пока жив ctx
func (s *GRPCServer) WatchHealth(ctx context.Context, check func(ctx context.Context) error, interval time.Duration) {
	probe := func() {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		err := check(checkCtx)
		if err != nil {
			s.log.Warn("health check failed", "error", err)
		}
		s.SetServing(err == nil)
	}

	probe()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}

func (s *GRPCServer) unaryInterceptor(ctx context.Context, req interface{},
	info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	s.log.Debug("gRPC call", "method", info.FullMethod)
	return handler(ctx, req)
}
