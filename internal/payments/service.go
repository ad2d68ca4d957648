// Package payments fronts the payment provider with a circuit breaker.
// The bundled provider is a mock that never moves real money; it exists so
// the checkout flow and the breaker behaviour can run end to end.
package payments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

var (
	ErrInvalidAmount  = errors.New("payment amount must be positive")
	ErrIntentNotFound = errors.New("payment intent not found")
)

type Intent struct {
	ID           string  `json:"id"`
	ClientSecret string  `json:"client_secret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Status       string  `json:"status"`
}

type Provider interface {
	CreateIntent(ctx context.Context, amount float64, currency string) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

// MockProvider keeps intents in memory and always succeeds.
type MockProvider struct {
	mu      sync.Mutex
	intents map[string]*Intent
}

func NewMockProvider() *MockProvider {
	return &MockProvider{intents: make(map[string]*Intent)}
}

func (p *MockProvider) CreateIntent(_ context.Context, amount float64, currency string) (*Intent, error) {
	id := "pi_" + uuid.NewString()
	intent := &Intent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%d", id, time.Now().UnixNano()),
		Amount:       amount,
		Currency:     currency,
		Status:       "succeeded",
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.intents[id] = intent
	return intent, nil
}

func (p *MockProvider) GetIntent(_ context.Context, id string) (*Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	intent, ok := p.intents[id]
	if !ok {
		return nil, ErrIntentNotFound
	}
	return intent, nil
}

type Service struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker[*Intent]
}

func NewService(provider Provider) *Service {
	breaker := gobreaker.NewCircuitBreaker[*Intent](gobreaker.Settings{
		Name:        "payment-provider",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &Service{provider: provider, breaker: breaker}
}

func (s *Service) CreateIntent(ctx context.Context, amount float64, currency string) (*Intent, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = "usd"
	}

	return s.breaker.Execute(func() (*Intent, error) {
		return s.provider.CreateIntent(ctx, amount, currency)
	})
}

// VerifyIntent reports the provider's view of an intent. Lookups of unknown
// intents are client errors and must not trip the breaker.
func (s *Service) VerifyIntent(ctx context.Context, id string) (*Intent, error) {
	intent, err := s.breaker.Execute(func() (*Intent, error) {
		intent, err := s.provider.GetIntent(ctx, id)
		if errors.Is(err, ErrIntentNotFound) {
			return nil, nil
		}
		return intent, err
	})
	if err != nil {
		return nil, err
	}
	if intent == nil {
		return nil, ErrIntentNotFound
	}
	return intent, nil
}
