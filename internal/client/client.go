package client

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"smartbin"
	"smartbin/internal/logger"

	"github.com/gorilla/websocket"
)

// maxLocalDelta bounds the offline fallback perturbation: ±1.5 per bin per tick.
const maxLocalDelta = 1.5

// ConnState is the client's connectivity state.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
)

func (s ConnState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// ViewFunc receives the freshly derived view state after every mirror change.
// It is called synchronously; a rendering adapter should be cheap here.
type ViewFunc func(ViewState)

// Client maintains a local mirror of the fleet over the realtime channel.
// While the channel is down it keeps the mirror visibly alive with a local
// simulation that never writes back to the server.
type Client struct {
	url    string
	dialer *websocket.Dialer
	policy *ReconnectPolicy
	log    *logger.Logger
	onView ViewFunc
	online chan struct{}
	rng    *rand.Rand

	mu       sync.Mutex
	mirror   *Mirror
	settings Settings
	state    ConnState
	refresh  *time.Ticker
}

func New(url string, settings Settings, onView ViewFunc, log *logger.Logger) *Client {
	if settings.RefreshInterval <= 0 {
		settings.RefreshInterval = DefaultSettings().RefreshInterval
	}
	if settings.AlertThreshold <= 0 {
		settings.AlertThreshold = DefaultSettings().AlertThreshold
	}
	return &Client{
		url:      url,
		dialer:   &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		policy:   NewReconnectPolicy(),
		log:      log,
		onView:   onView,
		online:   make(chan struct{}, 1),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		mirror:   NewMirror(),
		settings: settings,
	}
}

// State returns the current connectivity state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View derives the current view state from the mirror.
func (c *Client) View() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Derive(c.mirror.Bins(), c.settings)
}

// SetAlertThreshold changes the danger threshold and re-derives the view.
func (c *Client) SetAlertThreshold(threshold int) {
	c.mu.Lock()
	c.settings.AlertThreshold = threshold
	view := Derive(c.mirror.Bins(), c.settings)
	c.mu.Unlock()
	c.render(view)
}

// SetRefreshInterval changes the offline fallback simulation period,
// rescheduling the timer if Run is already driving it.
func (c *Client) SetRefreshInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.settings.RefreshInterval = d
	if c.refresh != nil {
		c.refresh.Reset(d)
	}
	c.mu.Unlock()
}

// NotifyOnline signals a network-online transition: the reconnect budget is
// restored and a retry happens immediately.
func (c *Client) NotifyOnline() {
	select {
	case c.online <- struct{}{}:
	default:
	}
}

// Run drives the connectivity state machine until ctx is canceled:
// Disconnected → Connecting → Connected, back to Disconnected on channel
// error, retried per the reconnect policy. Teardown cancels the refresh
// timer and closes the channel.
func (c *Client) Run(ctx context.Context) {
	refresh := time.NewTicker(c.refreshInterval())
	defer refresh.Stop()
	c.mu.Lock()
	c.refresh = refresh
	c.mu.Unlock()

	for {
		if ctx.Err() != nil {
			return
		}

		c.setState(Connecting)
		err := c.session(ctx)
		c.setState(Disconnected)
		if ctx.Err() != nil {
			return
		}
		if c.log != nil {
			c.log.Infow("channel_lost", "err", err)
		}

		if !c.awaitRetry(ctx, refresh) {
			return
		}
	}
}

// session dials the channel and pumps events into the mirror until the
// connection fails or ctx is canceled.
func (c *Client) session(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}

	// Unblock the read loop on cancellation.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	c.setState(Connected)
	c.policy.Reset()
	if c.log != nil {
		c.log.Infow("channel_connected", "url", c.url)
	}

	// The server's first event is the initial_data snapshot; Apply performs
	// the full mirror replace.
	for {
		var ev smartbin.ChangeEvent
		if err := conn.ReadJSON(&ev); err != nil {
			return err
		}
		c.apply(ev)
	}
}

// apply merges one event and, if the mirror changed, synchronously
// re-derives the view.
func (c *Client) apply(ev smartbin.ChangeEvent) {
	c.mu.Lock()
	changed := c.mirror.Apply(ev)
	var view ViewState
	if changed {
		view = Derive(c.mirror.Bins(), c.settings)
	}
	c.mu.Unlock()

	if changed {
		c.render(view)
	}
}

// awaitRetry waits out the reconnect policy while keeping the mirror alive
// with the local fallback simulation. Returns false when ctx is done.
func (c *Client) awaitRetry(ctx context.Context, refresh *time.Ticker) bool {
	delay, ok := c.policy.Next()
	if !ok {
		// Attempts exhausted: stay Disconnected until an external
		// online transition restarts the counter.
		if c.log != nil {
			c.log.Warnw("reconnect_exhausted", "attempts", maxReconnectAttempts)
		}
		for {
			select {
			case <-ctx.Done():
				return false
			case <-c.online:
				c.policy.Reset()
				return true
			case <-refresh.C:
				c.simulateLocally()
			}
		}
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-c.online:
			c.policy.Reset()
			return true
		case <-refresh.C:
			c.simulateLocally()
		case <-timer.C:
			return true
		}
	}
}

// simulateLocally perturbs every mirrored bin's fill level by up to ±1.5,
// clamped and rounded. Purely client-side: nothing is written back to the
// server; the dashboard just stays visibly live in offline/demo mode.
func (c *Client) simulateLocally() {
	c.mu.Lock()
	bins := c.mirror.Bins()
	for i := range bins {
		delta := (c.rng.Float64() - 0.5) * 2 * maxLocalDelta
		bins[i].FillLevel = smartbin.ClampLevel(int(math.Round(float64(bins[i].FillLevel) + delta)))
	}
	c.mirror.ReplaceAll(bins)
	view := Derive(c.mirror.Bins(), c.settings)
	c.mu.Unlock()

	c.render(view)
}

func (c *Client) render(view ViewState) {
	if c.onView != nil {
		c.onView(view)
	}
}

func (c *Client) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Client) refreshInterval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.RefreshInterval
}
