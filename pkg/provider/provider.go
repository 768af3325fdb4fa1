package provider

import "context"

// PushItem is one bundle delivery in a fulfillment request.
type PushItem struct {
	Network     string `json:"network"`
	VolumeMB    int    `json:"volume_mb"`
	Quantity    int    `json:"quantity"`
	Beneficiary string `json:"beneficiary"`
}

type PushRequest struct {
	OrderCode string     `json:"order_code"`
	Items     []PushItem `json:"items"`
}

type PushResponse struct {
	ProviderRef string `json:"reference"`
	Status      string `json:"status"`
}

// Provider-side order states.
const (
	StatusProcessing = "PROCESSING"
	StatusDelivered  = "DELIVERED"
	StatusFailed     = "FAILED"
)

type StatusResponse struct {
	OrderCode string `json:"order_code"`
	Status    string `json:"status"`
}

// Client talks to the external bundle fulfillment API.
type Client interface {
	PushOrder(ctx context.Context, req PushRequest) (*PushResponse, error)
	OrderStatus(ctx context.Context, orderCode string) (*StatusResponse, error)
}
