package config

import (
	"fmt"
)

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host     string `env:"LIBRARY_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"LIBRARY_PG_PORT" env-default:"5432"`
	Database string `env:"LIBRARY_PG_DATABASE" env-default:"library_db"`
	User     string `env:"LIBRARY_PG_USER" env-default:"library"`
	Password string `env:"LIBRARY_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"LIBRARY_PG_SCHEMA" env-default:"public"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL
func (d DatabaseConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}

func (d DatabaseConfig) validate() ValidationErrors {
	return CollectErrors(
		RequireNonEmpty("LIBRARY_PG_HOST", d.Host),
		RequireValidPort("LIBRARY_PG_PORT", d.Port),
		RequireNonEmpty("LIBRARY_PG_DATABASE", d.Database),
		RequireNonEmpty("LIBRARY_PG_USER", d.User),
	)
}
