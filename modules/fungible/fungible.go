package fungible

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/internal/config"
	"github.com/veriseal-network/supply-indexer/internal/postgres"
	fungibleapi "github.com/veriseal-network/supply-indexer/modules/fungible/api"
	fungibledatagateway "github.com/veriseal-network/supply-indexer/modules/fungible/datagateway"
	fungiblepostgres "github.com/veriseal-network/supply-indexer/modules/fungible/repository/postgres"
	fungibleusecase "github.com/veriseal-network/supply-indexer/modules/fungible/usecase"
	"github.com/veriseal-network/supply-indexer/pkg/logger"
)

// Module is the fungible asset supply module: it indexes validated contract
// operations and serves supply state over the mounted API handlers.
type Module struct {
	cleanupFuncs []func(context.Context) error
}

func New(injector do.Injector) (*Module, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)

	var fungibleDg fungibledatagateway.FungibleDataGateway
	var cleanupFuncs []func(context.Context) error
	switch strings.ToLower(conf.Modules.Fungible.Database) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, conf.Modules.Fungible.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "Invalid Postgres configuration for indexer")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		fungibleDg = fungiblepostgres.NewRepository(pg)
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q database for indexer is not supported", conf.Modules.Fungible.Database)
	}

	fungibleUsecase := fungibleusecase.New(fungibleDg)

	// Mount API
	apiHandlers := lo.Uniq(conf.Modules.Fungible.APIHandlers)
	for _, handler := range apiHandlers {
		switch handler {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			fungibleHTTPHandler := fungibleapi.NewHTTPHandler(fungibleUsecase)
			if err := fungibleHTTPHandler.Mount(httpServer); err != nil {
				return nil, errors.Wrap(err, "can't mount fungible API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}

	return &Module{cleanupFuncs: cleanupFuncs}, nil
}

func (m *Module) Shutdown(ctx context.Context) error {
	var errList []error
	for _, cleanup := range m.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}
