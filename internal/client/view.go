package client

import (
	"fmt"
	"math"
	"time"

	"smartbin"
)

// Classification thresholds below the user-adjustable alert threshold.
const (
	warningFillLevel    = 60 // status turns warning here
	monitorFillLevel    = 70 // bin counts as collection-due and gets a warning notification
	lowBatteryLevel     = 30
	defaultAlertLevel   = 85
	defaultRefreshEvery = time.Minute
)

// Settings are the per-client, user-adjustable display preferences. They are
// passed into derivation explicitly; there is no global settings singleton.
type Settings struct {
	AlertThreshold  int           // fill % at which a bin is classified danger
	RefreshInterval time.Duration // offline fallback simulation period
}

func DefaultSettings() Settings {
	return Settings{
		AlertThreshold:  defaultAlertLevel,
		RefreshInterval: defaultRefreshEvery,
	}
}

// BinStatus is the derived per-bin classification.
type BinStatus string

const (
	StatusOK      BinStatus = "ok"
	StatusWarning BinStatus = "warning"
	StatusDanger  BinStatus = "danger"
)

// StatusFor classifies a fill level against the alert threshold.
func StatusFor(fillLevel, alertThreshold int) BinStatus {
	switch {
	case fillLevel >= alertThreshold:
		return StatusDanger
	case fillLevel >= warningFillLevel:
		return StatusWarning
	default:
		return StatusOK
	}
}

// Stats are the aggregate figures shown in the dashboard sidebar.
type Stats struct {
	TotalBins     int
	AverageFill   int
	CollectionDue int // bins at or above monitorFillLevel
	OverThreshold int // bins at or above the alert threshold
}

// Notification levels, most urgent first.
const (
	NoticeDanger  = "danger"
	NoticeWarning = "warning"
	NoticeBattery = "low_battery"
	NoticeOK      = "ok"
)

// Notification is one entry in the derived notification list.
type Notification struct {
	Level   string
	BinID   int
	Message string
}

// ViewState is everything a rendering adapter needs. It is a pure function
// of (mirror, settings): same inputs, same view.
type ViewState struct {
	Bins          []smartbin.Bin
	Statuses      map[int]BinStatus
	Stats         Stats
	Notifications []Notification
}

// Derive computes the full view state from a mirror snapshot.
func Derive(bins []smartbin.Bin, s Settings) ViewState {
	view := ViewState{
		Bins:     bins,
		Statuses: make(map[int]BinStatus, len(bins)),
	}
	view.Stats.TotalBins = len(bins)

	totalFill := 0
	for _, b := range bins {
		view.Statuses[b.BinID] = StatusFor(b.FillLevel, s.AlertThreshold)
		totalFill += b.FillLevel
		if b.FillLevel >= monitorFillLevel {
			view.Stats.CollectionDue++
		}
		if b.FillLevel >= s.AlertThreshold {
			view.Stats.OverThreshold++
		}
	}
	if len(bins) > 0 {
		view.Stats.AverageFill = int(math.Round(float64(totalFill) / float64(len(bins))))
	}

	view.Notifications = deriveNotifications(bins, s)
	return view
}

// deriveNotifications builds the notification list: danger first, then
// warning, then low battery, with an "all normal" fallback when nothing
// qualifies.
func deriveNotifications(bins []smartbin.Bin, s Settings) []Notification {
	var out []Notification

	for _, b := range bins {
		if b.FillLevel >= s.AlertThreshold {
			out = append(out, Notification{
				Level:   NoticeDanger,
				BinID:   b.BinID,
				Message: fmt.Sprintf("Bin %d is %d%% full - immediate collection needed", b.BinID, b.FillLevel),
			})
		}
	}
	for _, b := range bins {
		if b.FillLevel >= monitorFillLevel && b.FillLevel < s.AlertThreshold {
			out = append(out, Notification{
				Level:   NoticeWarning,
				BinID:   b.BinID,
				Message: fmt.Sprintf("Bin %d at %d%% - monitor closely", b.BinID, b.FillLevel),
			})
		}
	}
	for _, b := range bins {
		if b.BatteryLevel < lowBatteryLevel {
			out = append(out, Notification{
				Level:   NoticeBattery,
				BinID:   b.BinID,
				Message: fmt.Sprintf("Bin %d has low battery: %d%%", b.BinID, b.BatteryLevel),
			})
		}
	}

	if len(out) == 0 {
		out = append(out, Notification{
			Level:   NoticeOK,
			Message: "All systems operating normally",
		})
	}
	return out
}
