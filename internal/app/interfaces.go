package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/aitopia-kr/aitopia/config"
	"github.com/aitopia-kr/aitopia/internal/auth"
	"github.com/aitopia-kr/aitopia/internal/catalog"
	"github.com/aitopia-kr/aitopia/internal/exchange"
	"github.com/aitopia-kr/aitopia/internal/payment"
	"github.com/aitopia-kr/aitopia/internal/wallet"
	"github.com/aitopia-kr/aitopia/pkg/metrics"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// CatalogProvider provides the service catalog resolver
type CatalogProvider interface {
	Catalog() *catalog.Resolver
}

// PaymentProvider provides the payment intent service
type PaymentProvider interface {
	Payments() *payment.Service
}

// AuthProvider provides sign-in and session handling
type AuthProvider interface {
	Auth() *auth.Authenticator
}

// ProfileProvider provides wallet and profile state
type ProfileProvider interface {
	Profiles() *wallet.Service
}

// ExchangeProvider provides the simulated exchange
type ExchangeProvider interface {
	Exchange() *exchange.Service
}

// MetricsProvider provides the host and process gauge history
type MetricsProvider interface {
	Metrics() *metrics.Store
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	ConfigProvider
	CatalogProvider
	PaymentProvider
	AuthProvider
	ProfileProvider
	ExchangeProvider
	MetricsProvider
}
