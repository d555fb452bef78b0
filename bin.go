package smartbin

import "time"

// Sensor status values reported by bin hardware.
const (
	SensorActive     = "active"
	SensorWarning    = "warning"
	SensorError      = "error"
	SensorLowBattery = "low_battery"
	SensorOffline    = "offline"
)

// DefaultCapacity is assigned to bins created without an explicit capacity.
const DefaultCapacity = 100

// Bin is the current snapshot of one monitored waste bin.
type Bin struct {
	BinID        int       `json:"binId"`
	Location     string    `json:"location"`
	FillLevel    int       `json:"fillLevel"`    // 0..100 %
	BatteryLevel int       `json:"batteryLevel"` // 0..100 %
	Temperature  int       `json:"temperature"`  // °C
	SensorStatus string    `json:"sensorStatus"` // active | warning | error | low_battery | offline
	Capacity     int       `json:"capacity"`     // liters
	LastEmptied  time.Time `json:"lastEmptied"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// BinUpdate is a partial update; nil fields are left untouched.
type BinUpdate struct {
	Location     *string    `json:"location,omitempty"`
	FillLevel    *int       `json:"fillLevel,omitempty"`
	BatteryLevel *int       `json:"batteryLevel,omitempty"`
	Temperature  *int       `json:"temperature,omitempty"`
	SensorStatus *string    `json:"sensorStatus,omitempty"`
	Capacity     *int       `json:"capacity,omitempty"`
	LastEmptied  *time.Time `json:"lastEmptied,omitempty"`
}

// ChangeEvent kinds carried over the realtime channel.
const (
	EventBinAdded        = "bin_added"
	EventBinUpdated      = "bin_updated"
	EventBinDeleted      = "bin_deleted"
	EventFillLevelUpdate = "fill_level_update"
	EventInitialData     = "initial_data"
)

// ChangeEvent is a tagged union describing one state transition.
// Which fields are set depends on Type:
//
//	bin_added / bin_updated  → Bin
//	bin_deleted              → BinID
//	fill_level_update        → BinID, FillLevel
//	initial_data             → Bins
type ChangeEvent struct {
	Type      string `json:"type"`
	Bin       *Bin   `json:"bin,omitempty"`
	BinID     int    `json:"binId,omitempty"`
	FillLevel *int   `json:"fillLevel,omitempty"`
	Bins      []Bin  `json:"bins,omitempty"`
}

// NewBinAdded builds a bin_added event for the given record.
func NewBinAdded(b Bin) ChangeEvent { return ChangeEvent{Type: EventBinAdded, Bin: &b} }

// NewBinUpdated builds a bin_updated event carrying the full updated record.
func NewBinUpdated(b Bin) ChangeEvent { return ChangeEvent{Type: EventBinUpdated, Bin: &b} }

// NewBinDeleted builds a bin_deleted event.
func NewBinDeleted(binID int) ChangeEvent { return ChangeEvent{Type: EventBinDeleted, BinID: binID} }

// NewFillLevelUpdate builds a sparse fill_level_update event.
func NewFillLevelUpdate(binID, fillLevel int) ChangeEvent {
	return ChangeEvent{Type: EventFillLevelUpdate, BinID: binID, FillLevel: &fillLevel}
}

// NewInitialData builds the per-session snapshot event sent on connect.
func NewInitialData(bins []Bin) ChangeEvent { return ChangeEvent{Type: EventInitialData, Bins: bins} }

// ClampLevel bounds a fill or battery percentage to [0,100].
func ClampLevel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// User is a dashboard account.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"` // stored lowercase
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phoneNumber"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"` // don’t expose hash
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}
