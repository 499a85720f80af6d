// Package database provides the item store for go-pugtodo
package database

import (
	"context"
	"log"

	"github.com/go-while/go-pugtodo/internal/config"
	"github.com/go-while/go-pugtodo/internal/models"
)

// Store is the boundary between the web handlers and the document backend.
// Get returns (nil, nil) when no item matches id. Update and Delete on an
// unknown but well formed id succeed without touching anything.
type Store interface {
	List(ctx context.Context) ([]*models.Item, error)
	Get(ctx context.Context, id string) (*models.Item, error)
	Create(ctx context.Context, text string) (*models.Item, error)
	Update(ctx context.Context, id, text string) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open connects the backend selected by dbconfig.ConnectString.
// The caller owns the returned Store and must Close it.
func Open(ctx context.Context, dbconfig *config.DatabaseConfig) (Store, error) {
	if dbconfig.IsMongo() {
		log.Printf("[DB]: Opening MongoDB store")
		store, err := OpenMongo(ctx, dbconfig)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	log.Printf("[DB]: Opening SQLite store")
	store, err := OpenSQLite(ctx, dbconfig)
	if err != nil {
		return nil, err
	}
	return store, nil
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MongoStore)(nil)
)
