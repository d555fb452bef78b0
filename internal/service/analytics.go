package service

import (
	"context"
	"math"

	"smartbin"
	"smartbin/internal/repository"
)

// collectionDueLevel is the fill level at which a bin counts toward the
// collections-due figure.
const collectionDueLevel = 70

// FleetSummary is the approximate fleet overview served by /analytics.
// Efficiency is a heuristic derived from fill levels, not a model output.
type FleetSummary struct {
	TotalBins        int `json:"totalBins"`
	AverageFillLevel int `json:"averageFillLevel"`
	CollectionsDue   int `json:"collectionsDue"`
	SystemEfficiency int `json:"systemEfficiency"`
}

type AnalyticsService struct {
	bins repository.BinRepo
}

func NewAnalyticsService(bins repository.BinRepo) *AnalyticsService {
	return &AnalyticsService{bins: bins}
}

// Summary computes the fleet overview from the current store snapshot.
func (s *AnalyticsService) Summary(ctx context.Context) (FleetSummary, error) {
	bins, err := s.bins.ListAll(ctx)
	if err != nil {
		return FleetSummary{}, err
	}

	summary := FleetSummary{TotalBins: len(bins)}
	if len(bins) == 0 {
		summary.SystemEfficiency = 100
		return summary, nil
	}

	total := 0
	for _, b := range bins {
		total += b.FillLevel
		if b.FillLevel >= collectionDueLevel {
			summary.CollectionsDue++
		}
	}
	avg := float64(total) / float64(len(bins))
	summary.AverageFillLevel = int(math.Round(avg))

	// Rough proxy: a fuller fleet is a less efficient one.
	summary.SystemEfficiency = smartbin.ClampLevel(100 - int(math.Round(avg/4)))
	return summary, nil
}
