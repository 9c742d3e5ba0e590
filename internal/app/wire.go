//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	brcfg "github.com/cianoid/BackTraderAlor/internal/config"
)

func buildAppWithWire(ctx context.Context, cfg *brcfg.Config) (*App, error) {
	wire.Build(NewAppBuilder, provideAppFromBuilder)
	return nil, nil
}
