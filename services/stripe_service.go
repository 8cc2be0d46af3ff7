package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"

	"restaurant-service/apperrors"
)

// PaymentProvider creates payment intents with the card processor.
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error)
}

type StripeService struct {
	api *client.API
}

// NewStripeService builds a Stripe client for secretKey. baseURL overrides
// the Stripe API host and is empty outside tests.
func NewStripeService(secretKey, baseURL string) *StripeService {
	cfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if baseURL != "" {
		cfg.URL = stripe.String(baseURL)
	}

	api := &client.API{}
	api.Init(secretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	})
	return &StripeService{api: api}
}

// CreatePaymentIntent returns the client secret of a new card payment intent.
// Any upstream failure comes back as a payment provider *apperrors.Error.
func (s *StripeService) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", providerError(err)
	}
	return pi.ClientSecret, nil
}

func providerError(err error) *apperrors.Error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return apperrors.New(http.StatusBadGateway, stripeErr.Msg, err)
	}
	return apperrors.Wrap(apperrors.ErrPaymentProvider, err)
}
