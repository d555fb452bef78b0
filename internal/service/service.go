package service

import (
	"context"
	"time"

	"smartbin"
	"smartbin/internal/logger"
	"smartbin/internal/repository"
)

// Broadcaster fans a change event out to every connected dashboard session.
// Implemented by the hub; fire-and-forget.
type Broadcaster interface {
	Broadcast(ev smartbin.ChangeEvent)
}

// Bins exposes CRUD over the bin fleet. Every successful mutation is
// broadcast after the store write commits.
type Bins interface {
	List(ctx context.Context) ([]smartbin.Bin, error)
	Get(ctx context.Context, binID int) (smartbin.Bin, error)
	Create(ctx context.Context, p CreateBinParams) (smartbin.Bin, error)
	Update(ctx context.Context, binID int, u smartbin.BinUpdate) (smartbin.Bin, error)
	Delete(ctx context.Context, binID int) error
	SeedDefaults(ctx context.Context) error
}

// Authorization handles account registration and token issuance.
type Authorization interface {
	Register(ctx context.Context, p RegisterParams) (*smartbin.User, error)
	GenerateToken(ctx context.Context, username, password string) (string, *smartbin.User, error)
	ParseToken(accessToken string) (*Claims, error)
	SeedAdmin(ctx context.Context) error
}

// Analytics exposes the approximate fleet summary.
type Analytics interface {
	Summary(ctx context.Context) (FleetSummary, error)
}

// Simulator runs the background loop that perturbs bin fill levels.
// Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
	Tick(ctx context.Context) error
}

// Service aggregates all sub-services.
type Service struct {
	Bins
	Authorization
	Analytics
	Simulator
}

// NewService wires the repository layer and the broadcast hub into concrete services.
func NewService(repos *repository.Repository, bc Broadcaster, log *logger.Logger, signingKey string) *Service {
	return &Service{
		Bins:          NewBinService(repos.Bins, bc),
		Authorization: NewAuthService(repos.Users, signingKey),
		Analytics:     NewAnalyticsService(repos.Bins),
		Simulator:     NewSimulatorService(repos.Bins, bc, log),
	}
}
