package app

import (
	"os"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/aitopia-kr/aitopia/config"
	"github.com/aitopia-kr/aitopia/internal/airtable"
	"github.com/aitopia-kr/aitopia/internal/auth"
	"github.com/aitopia-kr/aitopia/internal/catalog"
	"github.com/aitopia-kr/aitopia/internal/domain"
	"github.com/aitopia-kr/aitopia/internal/events"
	"github.com/aitopia-kr/aitopia/internal/exchange"
	"github.com/aitopia-kr/aitopia/internal/payment"
	"github.com/aitopia-kr/aitopia/internal/storage"
	"github.com/aitopia-kr/aitopia/internal/wallet"
	"github.com/aitopia-kr/aitopia/pkg/metrics"
)

const auditPoolSize = 8

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	sched     *cron.Cron

	storageCap *storage.Capability
	metrics    *metrics.Store
	bus        *events.Bus
	recorder   *events.Recorder
	ticker     *exchange.Ticker

	resolver *catalog.Resolver
	payments *payment.Service
	authn    *auth.Authenticator
	profiles *wallet.Service
	exchange *exchange.Service
}

// Ensure Application implements all interfaces
var (
	_ DBProvider        = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

func (a *Application) Catalog() *catalog.Resolver {
	return a.resolver
}

func (a *Application) Payments() *payment.Service {
	return a.payments
}

func (a *Application) Auth() *auth.Authenticator {
	return a.authn
}

func (a *Application) Profiles() *wallet.Service {
	return a.profiles
}

func (a *Application) Exchange() *exchange.Service {
	return a.exchange
}

func (a *Application) Metrics() *metrics.Store {
	return a.metrics
}

// StorageAvailable reports whether client state survives across requests.
func (a *Application) StorageAvailable() bool {
	return a.storageCap != nil
}

func initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// Init builds every service. Optional integrations that are not configured
// (datastore, payment processor, identity provider, client storage) are
// logged and run in their degraded mode; a missing session secret or an
// unreachable database is an error.
func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	initLogger(cfg)

	if err := cfg.InitDirs(); err != nil {
		zap.S().Warnf("working directories unavailable: %v", err)
	}

	sessions, err := auth.NewSessionManager(cfg.Auth.SessionSecret, time.Duration(cfg.Auth.SessionMaxAge)*time.Second)
	if err != nil {
		return err
	}

	if a.gormDB == nil {
		if cfg.Database.Type == "" {
			cfg.Database.Type = "postgres"
		}
		a.gormDB, err = getDatabase(cfg.Database, cfg.GetDataDir())
		if err != nil {
			return err
		}
		zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)
	}
	if err := a.MigrateDB(false); err != nil {
		return err
	}

	a.storageCap, err = storage.Open(cfg.GetStoragePath())
	if err != nil {
		zap.L().Warn("client state storage unavailable, profile changes are session-only", zap.Error(err))
		a.storageCap = nil
	}

	a.metrics, err = metrics.Open(cfg.GetRateDataDir(), time.Duration(cfg.Exchange.RateRetention)*24*time.Hour)
	if err != nil {
		zap.L().Warn("rate history storage unavailable, keeping samples in memory", zap.Error(err))
		if a.metrics, err = metrics.Open("", 0); err != nil {
			return err
		}
	}

	a.bus = events.NewBus()
	a.recorder, err = events.NewRecorder(events.NewGormAuditRepository(a.gormDB), auditPoolSize)
	if err != nil {
		return err
	}
	if err := a.recorder.Attach(a.bus); err != nil {
		return err
	}

	a.resolver = catalog.NewResolver(nil)
	if cfg.Airtable.Configured() {
		client, err := airtable.New(cfg.Airtable)
		if err != nil {
			zap.L().Warn("catalog datastore client unavailable, serving fallback", zap.Error(err))
		} else {
			a.resolver = catalog.NewResolver(client)
		}
	} else {
		zap.L().Info("catalog datastore not configured, serving fallback catalog")
	}

	var creator payment.IntentCreator
	if sc, err := payment.NewStripeCreator(cfg.Stripe.SecretKey, nil); err != nil {
		zap.L().Warn("payment processor not configured", zap.Error(err))
	} else {
		creator = sc
	}
	a.payments, err = payment.NewService(a.resolver, creator, payment.NewGormRepository(a.gormDB), a.bus,
		cfg.Stripe.Currency)
	if err != nil {
		return err
	}

	var provider auth.Provider
	if gp, err := auth.NewGoogleProvider(cfg.Auth, cfg.Web.PublicURL); err != nil {
		zap.L().Warn("google sign-in disabled", zap.Error(err))
	} else {
		provider = gp
	}
	a.authn = auth.NewAuthenticator(sessions, provider, auth.AllowAll{}, a.bus)

	a.profiles = wallet.NewService(storage.NewAccessor(a.storageCap))

	a.ticker = exchange.NewTicker(cfg.Exchange.BaseRate, cfg.Exchange.Fluctuation, a.metrics)
	a.exchange = exchange.NewService(a.ticker, exchange.NewGormOrderRepository(a.gormDB), a.bus,
		cfg.Exchange.FeeRate, cfg.Exchange.UsdtBalance)

	return a.initJob()
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			err = errors.Errorf("migrate database: %v", err1)
			zap.S().Error(err)
		}
	}()
	db := a.gormDB
	if track {
		db = db.Debug()
	}
	if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
		return errors.Wrap(err, "migrate database")
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.recorder != nil {
		a.recorder.Release()
	}
	if a.storageCap != nil {
		if err := a.storageCap.Close(); err != nil {
			zap.L().Warn("close client state storage", zap.Error(err))
		}
	}
	if err := a.metrics.Close(); err != nil {
		zap.L().Warn("close rate history storage", zap.Error(err))
	}
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = zap.L().Sync()
}
