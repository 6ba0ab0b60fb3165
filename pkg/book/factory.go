package book

import "fmt"

// RepositoryConfig contains configuration for creating a book repository
type RepositoryConfig struct {
	DB DBTX
}

// NewBookRepository creates a new book repository based on the persistence type
func NewBookRepository(persistenceType string, config RepositoryConfig) (BookRepository, error) {
	switch persistenceType {
	case "postgres", "postgresql":
		if config.DB == nil {
			return nil, fmt.Errorf("db required for postgres repository")
		}
		return NewPostgresBookRepository(config.DB), nil
	case "inmem", "memory", "":
		return NewInMemoryBookRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: postgres, inmem)", persistenceType)
	}
}
