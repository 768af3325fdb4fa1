package payverify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status   string `json:"status"`
		Amount   string `json:"amount"`
		Customer struct {
			Email string `json:"email"`
		} `json:"customer"`
		PaidAt time.Time `json:"paid_at"`
	} `json:"data"`
}

// HTTPVerifier implements Verifier against the payment gateway's
// reference lookup endpoint.
type HTTPVerifier struct {
	rest *resty.Client
}

func NewHTTPVerifier(baseURL, secretKey string, timeout time.Duration) *HTTPVerifier {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Authorization", "Bearer "+secretKey)
	return &HTTPVerifier{rest: rest}
}

func (v *HTTPVerifier) VerifyReference(ctx context.Context, reference string) (*Result, error) {
	var out verifyResponse
	resp, err := v.rest.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/transaction/verify/" + reference)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("verify request status: %d", resp.StatusCode())
	}
	return &Result{
		Success: out.Status && out.Data.Status == "success",
		Amount:  out.Data.Amount,
		Email:   out.Data.Customer.Email,
		PaidAt:  out.Data.PaidAt,
	}, nil
}
