package reservation

import "fmt"

// RepositoryConfig contains configuration for creating a reservation repository
type RepositoryConfig struct {
	DB DBTX
}

// NewReservationRepository creates a new reservation repository based on the persistence type
func NewReservationRepository(persistenceType string, config RepositoryConfig) (ReservationRepository, error) {
	switch persistenceType {
	case "postgres", "postgresql":
		if config.DB == nil {
			return nil, fmt.Errorf("db required for postgres repository")
		}
		return NewPostgresReservationRepository(config.DB), nil
	case "inmem", "memory", "":
		return NewInMemoryReservationRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: postgres, inmem)", persistenceType)
	}
}
