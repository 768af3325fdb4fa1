package payverify

import (
	"context"
	"strings"
	"time"
)

// StubVerifier approves any reference prefixed "stub_" for development.
type StubVerifier struct {
	Amount string
}

func (s *StubVerifier) VerifyReference(ctx context.Context, reference string) (*Result, error) {
	amount := s.Amount
	if amount == "" {
		amount = "10.00"
	}
	return &Result{
		Success: strings.HasPrefix(reference, "stub_"),
		Amount:  amount,
		Email:   "dev@dataplug.local",
		PaidAt:  time.Now(),
	}, nil
}
