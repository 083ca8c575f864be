package storefunnel

import (
	"github.com/smallbiznis/storepulse/internal/storefunnel/repository"
	"github.com/smallbiznis/storepulse/internal/storefunnel/service"
	"go.uber.org/fx"
)

var Module = fx.Module("storefunnel.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
