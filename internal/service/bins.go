package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartbin"
	"smartbin/internal/repository"
)

// Domain errors for the bin fleet.
var (
	ErrBinNotFound  = errors.New("bin not found")
	ErrDuplicateBin = errors.New("bin with this ID already exists")
	ErrInvalidBin   = errors.New("binId and location are required")
)

// Defaults applied to newly created bins.
const (
	newBinFillLevel    = 0
	newBinBatteryLevel = 100
	newBinTemperature  = 20
)

// CreateBinParams is the explicit creation request.
type CreateBinParams struct {
	BinID    int
	Location string
	Capacity int // 0 means default
}

type BinService struct {
	bins repository.BinRepo
	bc   Broadcaster
}

func NewBinService(bins repository.BinRepo, bc Broadcaster) *BinService {
	return &BinService{bins: bins, bc: bc}
}

// List returns all bins ordered by binId.
func (s *BinService) List(ctx context.Context) ([]smartbin.Bin, error) {
	return s.bins.ListAll(ctx)
}

// Get returns one bin or ErrBinNotFound.
func (s *BinService) Get(ctx context.Context, binID int) (smartbin.Bin, error) {
	b, err := s.bins.GetByID(ctx, binID)
	if errors.Is(err, repository.ErrNotFound) {
		return smartbin.Bin{}, ErrBinNotFound
	}
	return b, err
}

// Create stores a new bin with sensor defaults and broadcasts bin_added.
// The broadcast happens only after the store write commits.
func (s *BinService) Create(ctx context.Context, p CreateBinParams) (smartbin.Bin, error) {
	if p.BinID <= 0 || p.Location == "" {
		return smartbin.Bin{}, ErrInvalidBin
	}

	if _, err := s.bins.GetByID(ctx, p.BinID); err == nil {
		return smartbin.Bin{}, ErrDuplicateBin
	} else if !errors.Is(err, repository.ErrNotFound) {
		return smartbin.Bin{}, err
	}

	capacity := p.Capacity
	if capacity <= 0 {
		capacity = smartbin.DefaultCapacity
	}

	now := time.Now().UTC()
	b := smartbin.Bin{
		BinID:        p.BinID,
		Location:     p.Location,
		FillLevel:    newBinFillLevel,
		BatteryLevel: newBinBatteryLevel,
		Temperature:  newBinTemperature,
		SensorStatus: smartbin.SensorActive,
		Capacity:     capacity,
		LastEmptied:  now,
		LastUpdated:  now,
	}
	if err := s.bins.Insert(ctx, b); err != nil {
		return smartbin.Bin{}, err
	}

	s.bc.Broadcast(smartbin.NewBinAdded(b))
	return b, nil
}

// Update applies a partial update, clamping percentage fields, and
// broadcasts bin_updated with the full updated record.
func (s *BinService) Update(ctx context.Context, binID int, u smartbin.BinUpdate) (smartbin.Bin, error) {
	if u.FillLevel != nil {
		clamped := smartbin.ClampLevel(*u.FillLevel)
		u.FillLevel = &clamped
	}
	if u.BatteryLevel != nil {
		clamped := smartbin.ClampLevel(*u.BatteryLevel)
		u.BatteryLevel = &clamped
	}

	updated, err := s.bins.UpdateByID(ctx, binID, u)
	if errors.Is(err, repository.ErrNotFound) {
		return smartbin.Bin{}, ErrBinNotFound
	}
	if err != nil {
		return smartbin.Bin{}, err
	}

	s.bc.Broadcast(smartbin.NewBinUpdated(updated))
	return updated, nil
}

// Delete removes a bin and broadcasts bin_deleted.
func (s *BinService) Delete(ctx context.Context, binID int) error {
	err := s.bins.DeleteByID(ctx, binID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrBinNotFound
	}
	if err != nil {
		return err
	}

	s.bc.Broadcast(smartbin.NewBinDeleted(binID))
	return nil
}

// SeedDefaults creates the default fleet when the store is empty.
// Idempotent: a non-empty store is left untouched. Seeding does not
// broadcast; it runs before any session can connect.
func (s *BinService) SeedDefaults(ctx context.Context) error {
	n, err := s.bins.Count(ctx)
	if err != nil {
		return fmt.Errorf("count bins: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, b := range defaultFleet(time.Now().UTC()) {
		if err := s.bins.Insert(ctx, b); err != nil {
			return fmt.Errorf("seed bin %d: %w", b.BinID, err)
		}
	}
	return nil
}

// defaultFleet is the fixed six-bin bootstrap fleet.
func defaultFleet(now time.Time) []smartbin.Bin {
	seed := []struct {
		binID           int
		location        string
		fill, battery   int
		temperature     int
		status          string
		emptiedHoursAgo int
	}{
		{1, "Main Building - Lobby", 45, 85, 22, smartbin.SensorActive, 48},
		{2, "Cafeteria - East Wing", 72, 92, 24, smartbin.SensorActive, 24},
		{3, "Office Block - Floor 2", 28, 78, 21, smartbin.SensorActive, 72},
		{4, "Parking Garage - Level B1", 89, 67, 19, smartbin.SensorWarning, 12},
		{5, "Conference Center", 61, 90, 23, smartbin.SensorActive, 60},
		{6, "Emergency Exit - Stairwell", 15, 45, 18, smartbin.SensorLowBattery, 96},
	}

	bins := make([]smartbin.Bin, 0, len(seed))
	for _, s := range seed {
		bins = append(bins, smartbin.Bin{
			BinID:        s.binID,
			Location:     s.location,
			FillLevel:    s.fill,
			BatteryLevel: s.battery,
			Temperature:  s.temperature,
			SensorStatus: s.status,
			Capacity:     smartbin.DefaultCapacity,
			LastEmptied:  now.Add(-time.Duration(s.emptiedHoursAgo) * time.Hour),
			LastUpdated:  now,
		})
	}
	return bins
}
