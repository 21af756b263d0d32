package ring

import (
	"context"

	ringv1 "ringscrape/internal/api/ring/v1"
	"ringscrape/internal/ctxutil"
	"ringscrape/internal/domain"
)

// Service adapts a Node to the ring.v1.Ring gRPC service surface.
type Service struct {
	ringv1.UnimplementedRingServer
	node *Node
}

// NewService binds a gRPC service to node.
func NewService(node *Node) ringv1.RingServer {
	return &Service{node: node}
}

func (s *Service) FindSuccessor(ctx context.Context, req *ringv1.FindSuccessorRequest) (*ringv1.FindSuccessorResponse, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	succ, err := s.node.FindSuccessor(ctx, domain.ID(req.GetTargetId()))
	if err != nil {
		return nil, err
	}
	return &ringv1.FindSuccessorResponse{Node: toRef(succ)}, nil
}

func (s *Service) FindPred(ctx context.Context, req *ringv1.FindPredRequest) (*ringv1.FindPredResponse, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	pred, err := s.node.FindPred(ctx, domain.ID(req.GetTargetId()))
	if err != nil {
		return nil, err
	}
	return &ringv1.FindPredResponse{Node: toRef(pred)}, nil
}

func (s *Service) GetPredecessor(ctx context.Context, _ *ringv1.Empty) (*ringv1.GetPredecessorResponse, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	pred := s.node.GetPredecessor()
	if pred == nil {
		return &ringv1.GetPredecessorResponse{}, nil
	}
	return &ringv1.GetPredecessorResponse{Node: toRef(*pred)}, nil
}

func (s *Service) GetSuccessor(ctx context.Context, _ *ringv1.Empty) (*ringv1.GetSuccessorResponse, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	succ := s.node.GetSuccessor()
	if succ == nil {
		return &ringv1.GetSuccessorResponse{}, nil
	}
	return &ringv1.GetSuccessorResponse{Node: toRef(*succ)}, nil
}

func (s *Service) Notify(ctx context.Context, req *ringv1.NotifyRequest) (*ringv1.Empty, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	n := req.GetNode()
	if n == nil {
		return &ringv1.Empty{}, nil
	}
	s.node.Notify(domain.Node{ID: domain.ID(n.GetId()), Addr: n.GetAddr()})
	return &ringv1.Empty{}, nil
}

func (s *Service) NotAlone(ctx context.Context, req *ringv1.NotAloneRequest) (*ringv1.Empty, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	n := req.GetNode()
	if n == nil {
		return &ringv1.Empty{}, nil
	}
	s.node.NotAlone(domain.Node{ID: domain.ID(n.GetId()), Addr: n.GetAddr()})
	return &ringv1.Empty{}, nil
}

func (s *Service) UpdateSucc(ctx context.Context, req *ringv1.UpdateSuccRequest) (*ringv1.Empty, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	n := req.GetNode()
	if n == nil {
		return &ringv1.Empty{}, nil
	}
	s.node.UpdateSucc(domain.Node{ID: domain.ID(n.GetId()), Addr: n.GetAddr()})
	return &ringv1.Empty{}, nil
}

func (s *Service) Ping(ctx context.Context, _ *ringv1.Empty) (*ringv1.PingResponse, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	return &ringv1.PingResponse{Ok: s.node.Ping()}, nil
}

func toRef(n domain.Node) *ringv1.NodeRef {
	return &ringv1.NodeRef{Id: uint32(n.ID), Addr: n.Addr}
}
