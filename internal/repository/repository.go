package repository

import (
	"context"
	"database/sql"

	"smartbin"
	"smartbin/internal/repository/db"
)

// ErrNotFound is returned when the requested record does not exist.
// Services map it onto their own taxonomy.
var ErrNotFound = sql.ErrNoRows

// BinRepo is the durable keyed record store for bins.
type BinRepo interface {
	ListAll(ctx context.Context) ([]smartbin.Bin, error)
	GetByID(ctx context.Context, binID int) (smartbin.Bin, error)
	Insert(ctx context.Context, b smartbin.Bin) error
	UpdateByID(ctx context.Context, binID int, u smartbin.BinUpdate) (smartbin.Bin, error)
	DeleteByID(ctx context.Context, binID int) error
	Count(ctx context.Context) (int, error)
}

// UserRepo stores dashboard accounts.
type UserRepo interface {
	Create(ctx context.Context, u smartbin.User) (int, error)
	GetByUsername(ctx context.Context, username string) (*smartbin.User, error)
	GetByEmail(ctx context.Context, email string) (*smartbin.User, error)
	Count(ctx context.Context) (int, error)
}

type Repository struct {
	Bins  BinRepo
	Users UserRepo
}

func NewRepository(database *sql.DB) *Repository {
	return &Repository{
		Bins:  NewBinSQLite(database),
		Users: NewUserSQLite(database),
	}
}

// InitDB opens the SQLite file and applies the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
