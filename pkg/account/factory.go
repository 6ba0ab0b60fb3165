package account

import (
	"fmt"
)

// RepositoryConfig contains configuration for creating an account repository
type RepositoryConfig struct {
	// DB is required for PostgreSQL repositories
	DB DBTX
}

// NewAccountRepository creates a new account repository based on the persistence type
func NewAccountRepository(persistenceType string, config RepositoryConfig) (AccountRepository, error) {
	switch persistenceType {
	case "postgres", "postgresql":
		if config.DB == nil {
			return nil, fmt.Errorf("db required for postgres repository")
		}
		return NewPostgresAccountRepository(config.DB), nil
	case "inmem", "memory", "":
		return NewInMemoryAccountRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: postgres, inmem)", persistenceType)
	}
}
