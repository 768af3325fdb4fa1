package payverify

import (
	"context"
	"time"
)

// Result is the gateway's answer for a payment reference lookup.
type Result struct {
	Success bool
	Amount  string // decimal string, major units
	Email   string
	PaidAt  time.Time
}

// Verifier resolves a gateway payment reference to its outcome.
type Verifier interface {
	VerifyReference(ctx context.Context, reference string) (*Result, error)
}
