package postgres

import (
	"database/sql"

	"equiprent-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ProductRepository
	repository.OrderRepository
	repository.FreezeRepository
	repository.VersionRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		ProductRepository: NewProductRepository(db),
		OrderRepository:   NewOrderRepository(db),
		FreezeRepository:  NewFreezeRepository(db),
		VersionRepository: NewVersionRepository(db),
	}
}
