//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"mailmap/internal/config"
)

// InitializeApp builds the whole client graph from the config and the
// host-supplied frontend ports.
func InitializeApp(cfg *config.Config, frontend Frontend) (*App, error) {
	wire.Build(
		provideGate,
		provideNetClient,
		provideBackend,
		provideRenderer,
		provideStore,
		provideShare,
		provideModal,
		provideGesture,
		provideActions,
		wire.Struct(new(App), "*"),
	)
	return &App{}, nil
}
