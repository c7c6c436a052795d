//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/weaponsim/internal/core/weapon"
	"github.com/zeusync/weaponsim/internal/gallery"
)

func InitializeApp(cfg *gallery.Config, catalog *weapon.Catalog) (*App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
