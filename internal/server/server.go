// Package server hosts the gRPC listener advertising a node's ring.v1
// service, plus the address-selection logic (pickIP/Listen) peers use
// to decide what address to advertise to the rest of the ring.
package server

import (
	"fmt"
	"net"

	"google.golang.org/grpc"

	ringv1 "ringscrape/internal/api/ring/v1"
	"ringscrape/internal/logger"
	"ringscrape/internal/ring"
)

// Server wraps a gRPC server hosting the ring overlay service.
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	lgr        logger.Logger
}

// New creates a gRPC server bound to lis and registers the ring
// service backed by n.
func New(lis net.Listener, n *ring.Node, grpcOpts []grpc.ServerOption, srvOpts ...Option) *Server {
	s := &Server{
		grpcServer: grpc.NewServer(grpcOpts...),
		listener:   lis,
		lgr:        &logger.NopLogger{},
	}
	for _, opt := range srvOpts {
		opt(s)
	}
	ringv1.RegisterRingServer(s.grpcServer, ring.NewService(n))
	return s
}

// Start runs the gRPC server and blocks until it stops.
func (s *Server) Start() error {
	if err := s.grpcServer.Serve(s.listener); err != nil {
		return fmt.Errorf("gRPC server stopped: %w", err)
	}
	return nil
}

// Stop immediately stops the server and closes all active connections.
func (s *Server) Stop() {
	s.grpcServer.Stop()
}

// GracefulStop waits for in-flight RPCs to complete before stopping.
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}
