package provider

import (
	"context"
	"fmt"
	"time"
)

// StubClient is a no-op provider for development; every pushed order is
// reported delivered on the next status poll.
type StubClient struct{}

func (s *StubClient) PushOrder(ctx context.Context, req PushRequest) (*PushResponse, error) {
	return &PushResponse{
		ProviderRef: fmt.Sprintf("stub_%d", time.Now().UnixNano()),
		Status:      StatusProcessing,
	}, nil
}

func (s *StubClient) OrderStatus(ctx context.Context, orderCode string) (*StatusResponse, error) {
	return &StatusResponse{OrderCode: orderCode, Status: StatusDelivered}, nil
}
