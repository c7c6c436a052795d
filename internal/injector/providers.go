package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/weaponsim/internal/core/events/relay"
	"github.com/zeusync/weaponsim/internal/core/observability/log"
	"github.com/zeusync/weaponsim/internal/gallery"
	"github.com/zeusync/weaponsim/internal/server"
)

// App is everything cmd/gallery runs.
type App struct {
	Logger  *log.Logger
	Relay   *relay.Relay
	Gallery *gallery.Gallery
	// Feed is nil when the config disables it.
	Feed *server.Server
}

func NewApp(logger *log.Logger, r *relay.Relay, g *gallery.Gallery, feed *server.Server) *App {
	return &App{Logger: logger, Relay: r, Gallery: g, Feed: feed}
}

func ProvideLogger(cfg *gallery.Config) *log.Logger {
	return log.New(cfg.LogLevel)
}

func ProvideFeed(cfg *gallery.Config, r *relay.Relay, logger log.Log) (*server.Server, error) {
	if !cfg.FeedEnabled {
		return nil, nil
	}
	return server.NewServer(r, cfg.Feed, logger)
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	relay.New,
	gallery.New,
	ProvideFeed,
	NewApp,
)
