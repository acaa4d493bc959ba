//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
)

func InitializeApp(opts Options) (*App, func(), error) {
	wire.Build(SandboxSet, wire.Struct(new(App), "*"))
	return nil, nil, nil
}
