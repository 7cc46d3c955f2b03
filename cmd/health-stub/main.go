package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"timebank-smoke/configs"
	"timebank-smoke/internal/application/controller"
	"timebank-smoke/internal/application/middleware"
	"timebank-smoke/internal/domain/usecase/health"
	"timebank-smoke/pkg/log"
	"timebank-smoke/pkg/msg"
	"timebank-smoke/pkg/resource"
)

const shutdownTimeout = 5 * time.Second

// newServer wires the stub routes for mode under contextPath.
func newServer(contextPath string, mode health.Mode) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	middleware.SetupRequestID(e)
	middleware.SetupRequestLogger(e)

	api := e.Group(contextPath)

	healthUseCase := health.NewHealthUseCase(mode)
	log.Info(msg.GetMessage("health-stub.mode", healthUseCase.Mode()), zap.String("mode", string(healthUseCase.Mode())))

	healthController := controller.NewHealthController(api, healthUseCase)
	healthController.InitHealthRoutes()

	return e
}

func main() {
	if err := configs.Load(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	appName := configs.Env.ApplicationName
	log.Info(msg.GetMessage("app.start", appName))

	mode, err := health.ParseMode(resource.GetString("health-stub.mode"))
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	e := newServer(resource.GetString("health-stub.context-path"), mode)
	address := ":" + resource.GetString("health-stub.port")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info(msg.GetMessage("app.started", appName, address), zap.String("address", address))
		if err := e.Start(address); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatal("health stub stopped unexpectedly", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("health stub shutdown failed", zap.Error(err))
	}
	log.Info(msg.GetMessage("app.stop", appName))
}
