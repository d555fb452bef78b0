package service

import (
	"context"
	"math"
	"math/rand"
	"time"

	"smartbin"
	"smartbin/internal/logger"
	"smartbin/internal/repository"
)

// DefaultSimTick is the period between simulated sensor updates.
const DefaultSimTick = 30 * time.Second

// maxFillDelta bounds one tick's perturbation: Δ = uniform(-2.5, +2.5).
const maxFillDelta = 2.5

// SimulatorService emulates live sensor drift in the absence of real hardware.
// Each tick picks one bin at random, nudges its fill level, persists the
// change, and broadcasts a fill_level_update. It publishes even with zero
// subscribers.
type SimulatorService struct {
	bins repository.BinRepo
	bc   Broadcaster
	log  *logger.Logger
	rng  *rand.Rand
}

func NewSimulatorService(bins repository.BinRepo, bc Broadcaster, log *logger.Logger) *SimulatorService {
	return &SimulatorService{
		bins: bins,
		bc:   bc,
		log:  log,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run ticks at the given interval until ctx is canceled. A failed tick is
// logged and skipped; the next scheduled tick proceeds unaffected.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultSimTick
	}
	t := time.NewTicker(tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.Tick(ctx); err != nil {
				if s.log != nil {
					s.log.Errorw("simulator_tick_failed", "err", err)
				}
			}
		}
	}
}

// Tick performs one simulation step. Exposed so tests can single-step.
func (s *SimulatorService) Tick(ctx context.Context) error {
	bins, err := s.bins.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(bins) == 0 {
		return nil
	}

	target := bins[s.rng.Intn(len(bins))]
	delta := (s.rng.Float64() - 0.5) * 2 * maxFillDelta
	next := smartbin.ClampLevel(int(math.Round(float64(target.FillLevel) + delta)))

	if _, err := s.bins.UpdateByID(ctx, target.BinID, smartbin.BinUpdate{FillLevel: &next}); err != nil {
		return err
	}

	s.bc.Broadcast(smartbin.NewFillLevelUpdate(target.BinID, next))
	return nil
}
