package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/reuse/internal/config"
	pkgmdw "github.com/nguyentranbao-ct/reuse/internal/server/middleware"
	"github.com/nguyentranbao-ct/reuse/pkg/logger"
)

// NewEcho builds the BFF router. It does not listen.
func NewEcho(conf *config.Config, validate *validator.Validate, handler Controller) (*echo.Echo, error) {
	var cors *regexp.Regexp
	if conf.Server.CORSPattern != "" {
		pattern, err := regexp.Compile(conf.Server.CORSPattern)
		if err != nil {
			return nil, fmt.Errorf("compile cors pattern: %w", err)
		}
		cors = pattern
	}

	log := logger.MustNamed("http")
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = pkgmdw.NewValidator(validate)
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(log)

	e.Use(
		pkgmdw.Metrics(),
		pkgmdw.RequestID(),
		pkgmdw.CORS(cors),
		pkgmdw.LogRequest(pkgmdw.LogRequestConfig{
			Logger: log,
			Enabled: func(c echo.Context) bool {
				path := c.Path()
				return path != "/health" && path != "/metrics"
			},
			// credentials stay out of the logs
			RequestBody: func(c echo.Context) bool {
				return c.Path() != "/api/v1/auth/login" && c.Path() != "/api/v1/auth/register"
			},
			ParamValues: func(c echo.Context) bool { return true },
		}),
		middleware.RecoverWithConfig(middleware.RecoverConfig{
			LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
				log.Errorw("panic recovered", "error", err, "stack", string(stack))
				return err
			},
		}),
	)
	if conf.Server.Pprof {
		pkgmdw.PprofWrap(e)
	}

	e.GET("/health", handler.Health)

	api := e.Group("/api/v1")
	api.GET("/products", pkgmdw.WrapHandler(handler.ListProducts))
	api.GET("/products/:id", pkgmdw.WrapHandler(handler.GetProduct))

	api.POST("/auth/login", pkgmdw.WrapHandler(handler.Login))
	api.POST("/auth/register", pkgmdw.WrapHandler(handler.Register))
	api.POST("/auth/logout", pkgmdw.WrapHandler(handler.Logout))
	api.GET("/auth/validate", pkgmdw.WrapHandler(handler.ValidateSession))
	api.GET("/auth/session", pkgmdw.WrapHandler(handler.CurrentSession))

	api.POST("/listings", pkgmdw.WrapHandler(handler.CreateListing))
	api.GET("/listings/mine", pkgmdw.WrapHandler(handler.MyListings))
	api.GET("/listings/interested", pkgmdw.WrapHandler(handler.InterestedListings))
	api.GET("/listings/overview", pkgmdw.WrapHandler(handler.ListingOverview))
	api.PUT("/listings/:id", pkgmdw.WrapHandler(handler.UpdateListing))
	api.DELETE("/listings/:id", pkgmdw.WrapHandler(handler.DeleteListing))
	api.POST("/listings/:id/interest", pkgmdw.WrapHandler(handler.ShowInterest))

	return e, nil
}

func StartServer(lc fx.Lifecycle, sd fx.Shutdowner, conf *config.Config, validate *validator.Validate, handler Controller) error {
	e, err := NewEcho(conf, validate, handler)
	if err != nil {
		return err
	}

	log := logger.MustNamed("server")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow("http server listening", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("http server stopped", "error", err)
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
	return nil
}
