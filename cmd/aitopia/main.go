package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aitopia-kr/aitopia/config"
	"github.com/aitopia-kr/aitopia/internal/app"
	"github.com/aitopia-kr/aitopia/internal/auth"
	"github.com/aitopia-kr/aitopia/internal/webapi"
	"github.com/aitopia-kr/aitopia/internal/webserver"
)

var (
	conffile = flag.String("c", "", "config yaml file")
	showVer  = flag.Bool("v", false, "show version")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println(version)
		return
	}

	cfg, err := config.LoadConfig(*conffile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		zap.S().Errorf("application init failed: %v", err)
		os.Exit(1)
	}
	defer application.Release()

	if *initdb {
		application.DropAll()
		if err := application.MigrateDB(true); err != nil {
			zap.S().Error(err)
			os.Exit(1)
		}
		return
	}

	webapi.Init()
	server := webserver.NewServer(cfg, application, webserver.Options{
		SessionSecret: []byte(cfg.Auth.SessionSecret),
		NewClaims:     func() jwt.Claims { return new(auth.Claims) },
		SessionCookie: auth.SessionCookieName,
		SecureCookie:  cfg.Auth.SecureCookie,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application.StartBackgroundJobs(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		zap.S().Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zap.S().Errorf("server stopped: %v", err)
	}
}
