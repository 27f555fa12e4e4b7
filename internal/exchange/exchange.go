// Package exchange simulates converting a USDT balance into KRW paid to a bank account.
package exchange

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aitopia-kr/aitopia/internal/domain"
	"github.com/aitopia-kr/aitopia/internal/events"
	"github.com/aitopia-kr/aitopia/internal/wallet"
	"github.com/aitopia-kr/aitopia/pkg/metrics"
)

var (
	ErrInvalidAmount       = errors.New("exchange amount must be greater than zero")
	ErrInsufficientBalance = errors.New("exchange amount exceeds the available balance")
	ErrBankAccountMissing  = errors.New("register a bank account before exchanging")
)

// Quote is the KRW outcome of exchanging an amount at a rate.
type Quote struct {
	UsdtAmount float64 `json:"usdtAmount"`
	Rate       float64 `json:"rate"`
	KrwAmount  int64   `json:"krwAmount"`
	FeeKrw     int64   `json:"feeKrw"`
}

// Request asks to exchange UsdtAmount into Bank.
type Request struct {
	UserEmail  string
	UsdtAmount float64
	Bank       wallet.BankAccount
}

// Result is an accepted exchange request.
type Result struct {
	Order     domain.ExchangeOrder `json:"order"`
	Message   string               `json:"message"`
	Persisted bool                 `json:"persisted"`
}

// Service quotes and records exchanges against a fixed simulated balance.
// The balance is never decremented.
type Service struct {
	ticker    *Ticker
	orders    OrderRepository
	publisher events.Publisher
	feeRate   float64
	balance   float64

	nodeOnce sync.Once
	node     *snowflake.Node
	nodeErr  error
	printer  *message.Printer
}

// NewService builds an exchange service. orders may be nil, in which case
// requests are accepted but not recorded.
func NewService(ticker *Ticker, orders OrderRepository, publisher events.Publisher, feeRate, balance float64) *Service {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Service{
		ticker:    ticker,
		orders:    orders,
		publisher: publisher,
		feeRate:   feeRate,
		balance:   balance,
		printer:   message.NewPrinter(language.Korean),
	}
}

func (s *Service) Balance() float64 {
	return s.balance
}

func (s *Service) Rate() Rate {
	return s.ticker.Current()
}

// RateHistory returns the recorded rate samples in [since, until] and their summary.
func (s *Service) RateHistory(since, until time.Time) ([]metrics.Point, RateSummary, error) {
	return s.ticker.History(since, until)
}

// Quote prices usdt at the current rate.
func (s *Service) Quote(usdt float64) (Quote, error) {
	if !(usdt > 0) {
		return Quote{}, ErrInvalidAmount
	}
	rate := s.ticker.Current().Rate
	krw := math.Round(usdt * rate)
	return Quote{
		UsdtAmount: usdt,
		Rate:       rate,
		KrwAmount:  int64(krw),
		FeeKrw:     int64(math.Round(krw * s.feeRate)),
	}, nil
}

// Request validates and records an exchange. A recording failure is logged
// and reported through Result.Persisted.
func (s *Service) Request(ctx context.Context, req Request) (*Result, error) {
	if !(req.UsdtAmount > 0) {
		return nil, ErrInvalidAmount
	}
	if req.UsdtAmount > s.balance {
		return nil, ErrInsufficientBalance
	}
	if !req.Bank.Complete() {
		return nil, ErrBankAccountMissing
	}
	q, err := s.Quote(req.UsdtAmount)
	if err != nil {
		return nil, err
	}
	id, err := s.nextID()
	if err != nil {
		return nil, err
	}

	order := domain.ExchangeOrder{
		ID:            id,
		UserEmail:     req.UserEmail,
		UsdtAmount:    q.UsdtAmount,
		KrwAmount:     q.KrwAmount,
		Rate:          q.Rate,
		FeeKrw:        q.FeeKrw,
		BankName:      req.Bank.BankName,
		BankAccount:   req.Bank.BankAccount,
		AccountHolder: req.Bank.AccountHolder,
		Status:        domain.ExchangeStatusProcessing,
		CreatedAt:     time.Now(),
	}
	persisted := false
	if s.orders != nil {
		if err := s.orders.Create(ctx, &order); err != nil {
			zap.L().Error("exchange order not recorded", zap.Int64("id", order.ID), zap.Error(err))
		} else {
			persisted = true
		}
	}

	s.publisher.Publish(events.Event{
		Topic: events.TopicExchangeRequested,
		Actor: req.UserEmail,
		Detail: map[string]interface{}{
			"orderId":    strconv.FormatInt(order.ID, 10),
			"usdtAmount": order.UsdtAmount,
			"krwAmount":  order.KrwAmount,
			"rate":       order.Rate,
		},
	})

	return &Result{Order: order, Message: s.Message(order), Persisted: persisted}, nil
}

// Message is the confirmation shown to the user, e.g.
// "100 USDT → 134,000원 환전 신청이 완료되었습니다!".
func (s *Service) Message(order domain.ExchangeOrder) string {
	return strconv.FormatFloat(order.UsdtAmount, 'f', -1, 64) + " USDT → " +
		s.printer.Sprintf("%d", order.KrwAmount) + "원 환전 신청이 완료되었습니다!"
}

// History lists the user's orders, newest first.
func (s *Service) History(ctx context.Context, email string, since time.Time, limit int) ([]domain.ExchangeOrder, error) {
	if s.orders == nil {
		return []domain.ExchangeOrder{}, nil
	}
	orders, err := s.orders.ListByUser(ctx, email, since, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list exchange orders")
	}
	return orders, nil
}

// Settle completes processing orders older than age. It returns how many changed.
func (s *Service) Settle(ctx context.Context, age time.Duration) (int64, error) {
	if s.orders == nil {
		return 0, nil
	}
	n, err := s.orders.CompleteBefore(ctx, time.Now().Add(-age))
	if err != nil {
		return 0, errors.Wrap(err, "settle exchange orders")
	}
	return n, nil
}

func (s *Service) nextID() (int64, error) {
	s.nodeOnce.Do(func() {
		s.node, s.nodeErr = snowflake.NewNode(1)
	})
	if s.nodeErr != nil {
		return 0, errors.Wrap(s.nodeErr, "snowflake node")
	}
	return s.node.Generate().Int64(), nil
}
