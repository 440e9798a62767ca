package http

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/go-portal/portal/pkg/ctx"
	"github.com/go-portal/portal/pkg/log"
)

/**
 * @file: http.go
 * @description: http server
 */

type Http struct {
	Host            string
	Port            int
	Mode            string
	ContextPath     string
	PProf           bool
	ExposeMetrics   bool
	AccessLog       bool
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
	TLS             TLS
	Auth            Auth
	Ctx             ctx.Context
}

type TLS struct {
	CertFile string
	KeyFile  string
}

type Auth struct {
	SecretKey     string
	AccessExpire  time.Duration
	RefreshExpire time.Duration
}

// NewFiberApp builds the fiber application with server timeouts applied.
func NewFiberApp(cfg Http) *fiber.App {
	return fiber.New(fiber.Config{
		ReadTimeout:           time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(cfg.IdleTimeout) * time.Second,
		DisableStartupMessage: cfg.Mode == "release",
	})
}

// NewHttp starts the http server and returns a shutdown hook that
// blocks until a termination signal arrives, then drains gracefully.
func NewHttp(cfg Http, app *fiber.App) func() {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	go func() {
		log.Infof("http server start at: %s", addr)
		var err error
		if cfg.TLS.CertFile != "" && cfg.TLS.KeyFile != "" {
			err = app.ListenTLS(addr, cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = app.Listen(addr)
		}
		if err != nil {
			log.Errorf("http server error: %v", err)
			os.Exit(1)
		}
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	return createShutdownHook(app, cfg.ShutdownTimeout, sc)
}

func createShutdownHook(app *fiber.App, shutdownTimeout int, signalChan chan os.Signal) func() {
	return func() {
		<-signalChan
		log.Info("http server shutting down...")

		if err := app.ShutdownWithTimeout(time.Duration(shutdownTimeout) * time.Second); err != nil {
			log.Errorf("server shutdown error: %v", err)
		} else {
			log.Info("http server shut down gracefully")
		}
	}
}
