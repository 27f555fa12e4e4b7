// Package payment prices services and opens payment intents for them.
package payment

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aitopia-kr/aitopia/internal/domain"
	"github.com/aitopia-kr/aitopia/internal/events"
)

const (
	DefaultCurrency = "krw"
	StatusCreated   = "created"
)

// CreateRequest is a request to pay for a service.
type CreateRequest struct {
	ServiceKey string
	Amount     int64
	Currency   string
	UserEmail  string
}

// CreateResult is returned to the client to confirm the payment.
type CreateResult struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	Amount          int64  `json:"amount"`
}

type Service struct {
	lookup    CatalogLookup
	creator   IntentCreator
	repo      Repository
	publisher events.Publisher
	currency  string
	node      *snowflake.Node
}

// NewService wires the payment flow. A nil creator makes every attempt fail
// with ErrProcessorNotConfigured; repo and publisher may be nil. currency is
// used when a request names none; blank means DefaultCurrency.
func NewService(lookup CatalogLookup, creator IntentCreator, repo Repository, publisher events.Publisher, currency string) (*Service, error) {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if creator == nil {
		creator = unconfigured{}
	}
	if publisher == nil {
		publisher = events.Discard{}
	}
	node, err := snowflake.NewNode(2)
	if err != nil {
		return nil, errors.Wrap(err, "snowflake node")
	}
	return &Service{
		lookup:    lookup,
		creator:   creator,
		repo:      repo,
		publisher: publisher,
		currency:  currency,
		node:      node,
	}, nil
}

// CreateIntent resolves the amount and opens a payment intent for it.
func (s *Service) CreateIntent(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.currency
	}
	amount := ResolveAmount(ctx, s.lookup, req.ServiceKey, req.Amount)

	intent, err := s.creator.CreateIntent(ctx, IntentParams{
		Amount:      amount.Value,
		Currency:    currency,
		ServiceKey:  req.ServiceKey,
		Description: "AITOPIA AI 서비스 가입: " + req.ServiceKey,
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, &domain.PaymentRecord{
		ID:              s.node.Generate().Int64(),
		ServiceKey:      req.ServiceKey,
		Amount:          amount.Value,
		Currency:        currency,
		AmountSource:    amount.Source,
		PaymentIntentID: intent.ID,
		UserEmail:       req.UserEmail,
		Status:          StatusCreated,
	})
	s.publisher.Publish(events.Event{
		Topic: events.TopicPaymentIntentCreated,
		Actor: req.UserEmail,
		Detail: map[string]interface{}{
			"serviceKey":      req.ServiceKey,
			"amount":          amount.Value,
			"amountSource":    amount.Source,
			"paymentIntentId": intent.ID,
		},
	})

	return &CreateResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          amount.Value,
	}, nil
}

func (s *Service) record(ctx context.Context, rec *domain.PaymentRecord) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		zap.L().Error("payment record not saved",
			zap.String("payment_intent_id", rec.PaymentIntentID), zap.Error(err))
	}
}

// History returns the payment records of a user, newest first.
func (s *Service) History(ctx context.Context, email string, limit int) ([]domain.PaymentRecord, error) {
	if s.repo == nil {
		return []domain.PaymentRecord{}, nil
	}
	recs, err := s.repo.ListByUser(ctx, email, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list payment records")
	}
	return recs, nil
}
