package config

import "github.com/veriseal-network/supply-indexer/internal/postgres"

type Config struct {
	Database    string          `mapstructure:"database"` // Database to store fungible asset supply data. Currently only `postgres` is supported.
	Postgres    postgres.Config `mapstructure:"postgres"`
	APIHandlers []string        `mapstructure:"api_handlers"` // API handlers to mount. E.g. `http`
}
