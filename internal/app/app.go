package app

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/nguyentranbao-ct/reuse/internal/config"
	"github.com/nguyentranbao-ct/reuse/internal/server"
	pkgmdw "github.com/nguyentranbao-ct/reuse/internal/server/middleware"
	"github.com/nguyentranbao-ct/reuse/internal/usecase"
	"github.com/nguyentranbao-ct/reuse/pkg/logger"
)

// Module is the whole dependency graph for conf, without anything to run.
func Module(conf *config.Config) fx.Option {
	log := logger.MustNamed("app")
	return fx.Options(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: log.Desugar()}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Supply(conf),
		fx.Provide(
			pkgmdw.NewValidate,

			newStore,
			newActivityRecorder,
			newCatalogClient,
			newAuthAPI,
			newListingsAPI,

			usecase.NewSourceSelector,
			usecase.NewProductUsecase,
			usecase.NewAuthUsecase,
			usecase.NewListingUsecase,

			server.NewController,
		),
	)
}

// Invoke builds the application around conf and runs funcs against it. Extra options such as
// fx.Populate for CLI commands are appended last.
func Invoke(conf *config.Config, funcs []any, opts ...fx.Option) *fx.App {
	logger.MustNamed("app").Debugw("config loaded", "config", conf)
	return fx.New(
		Module(conf),
		fx.Invoke(funcs...),
		fx.Options(opts...),
	)
}
