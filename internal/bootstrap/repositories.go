package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/donateraid/storefront-api/internal/database/postgres"
	"github.com/donateraid/storefront-api/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Cart    repository.Cart
	Session repository.Session
}

// InitializeRepositories creates all repository implementations.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Cart:    postgres.NewCartRepository(dbPool),
		Session: postgres.NewSessionRepository(dbPool),
	}
}
