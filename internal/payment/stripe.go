package payment

import (
	"context"

	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrProcessorNotConfigured is returned when no processor secret key is set.
var ErrProcessorNotConfigured = errors.New("payment processor is not configured")

// IntentParams describes a payment intent to open with the processor.
type IntentParams struct {
	Amount      int64
	Currency    string
	ServiceKey  string
	Description string
}

// Intent is a created payment intent.
type Intent struct {
	ID           string
	ClientSecret string
}

// IntentCreator opens payment intents with a processor.
type IntentCreator interface {
	CreateIntent(ctx context.Context, p IntentParams) (*Intent, error)
}

// StripeCreator creates PaymentIntents through the Stripe API.
type StripeCreator struct {
	api *client.API
}

// NewStripeCreator returns ErrProcessorNotConfigured for a blank key.
// backends may be nil to use Stripe's default endpoints.
func NewStripeCreator(secretKey string, backends *stripe.Backends) (*StripeCreator, error) {
	if secretKey == "" {
		return nil, ErrProcessorNotConfigured
	}
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeCreator{api: api}, nil
}

func (s *StripeCreator) CreateIntent(ctx context.Context, p IntentParams) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(p.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("serviceKey", p.ServiceKey)
	params.AddMetadata("description", p.Description)

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, errors.Wrap(err, "create stripe payment intent")
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// unconfigured stands in for a processor when no key is set.
type unconfigured struct{}

func (unconfigured) CreateIntent(context.Context, IntentParams) (*Intent, error) {
	return nil, ErrProcessorNotConfigured
}

// ErrorMessage extracts the processor's human readable message from err.
func ErrorMessage(err error) string {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return se.Msg
	}
	return errors.Cause(err).Error()
}
