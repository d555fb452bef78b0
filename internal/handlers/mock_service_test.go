package handlers_test

import (
	"context"
	"time"

	"smartbin"
	"smartbin/internal/handlers"
	"smartbin/internal/hub"
	"smartbin/internal/service"

	"github.com/gin-gonic/gin"
)

// snapshotStub backs the hub with a fixed fleet for websocket tests.
type snapshotStub struct {
	bins []smartbin.Bin
}

func (s snapshotStub) ListAll(ctx context.Context) ([]smartbin.Bin, error) {
	return s.bins, nil
}

// binsStub implements service.Bins with per-call function fields.
type binsStub struct {
	listFn   func(ctx context.Context) ([]smartbin.Bin, error)
	getFn    func(ctx context.Context, binID int) (smartbin.Bin, error)
	createFn func(ctx context.Context, p service.CreateBinParams) (smartbin.Bin, error)
	updateFn func(ctx context.Context, binID int, u smartbin.BinUpdate) (smartbin.Bin, error)
	deleteFn func(ctx context.Context, binID int) error
}

func (s *binsStub) List(ctx context.Context) ([]smartbin.Bin, error) {
	if s.listFn == nil {
		return []smartbin.Bin{}, nil
	}
	return s.listFn(ctx)
}

func (s *binsStub) Get(ctx context.Context, binID int) (smartbin.Bin, error) {
	if s.getFn == nil {
		return smartbin.Bin{}, service.ErrBinNotFound
	}
	return s.getFn(ctx, binID)
}

func (s *binsStub) Create(ctx context.Context, p service.CreateBinParams) (smartbin.Bin, error) {
	if s.createFn == nil {
		return smartbin.Bin{}, service.ErrInvalidBin
	}
	return s.createFn(ctx, p)
}

func (s *binsStub) Update(ctx context.Context, binID int, u smartbin.BinUpdate) (smartbin.Bin, error) {
	if s.updateFn == nil {
		return smartbin.Bin{}, service.ErrBinNotFound
	}
	return s.updateFn(ctx, binID, u)
}

func (s *binsStub) Delete(ctx context.Context, binID int) error {
	if s.deleteFn == nil {
		return service.ErrBinNotFound
	}
	return s.deleteFn(ctx, binID)
}

func (s *binsStub) SeedDefaults(ctx context.Context) error { return nil }

// authStub implements service.Authorization.
type authStub struct {
	registerFn func(ctx context.Context, p service.RegisterParams) (*smartbin.User, error)
	tokenFn    func(ctx context.Context, username, password string) (string, *smartbin.User, error)
	parseFn    func(accessToken string) (*service.Claims, error)
}

func (s *authStub) Register(ctx context.Context, p service.RegisterParams) (*smartbin.User, error) {
	if s.registerFn == nil {
		return nil, service.ErrInvalidUser
	}
	return s.registerFn(ctx, p)
}

func (s *authStub) GenerateToken(ctx context.Context, username, password string) (string, *smartbin.User, error) {
	if s.tokenFn == nil {
		return "", nil, service.ErrUserNotFound
	}
	return s.tokenFn(ctx, username, password)
}

func (s *authStub) ParseToken(accessToken string) (*service.Claims, error) {
	if s.parseFn == nil {
		return nil, service.ErrInvalidToken
	}
	return s.parseFn(accessToken)
}

func (s *authStub) SeedAdmin(ctx context.Context) error { return nil }

// analyticsStub implements service.Analytics.
type analyticsStub struct {
	summaryFn func(ctx context.Context) (service.FleetSummary, error)
}

func (s *analyticsStub) Summary(ctx context.Context) (service.FleetSummary, error) {
	if s.summaryFn == nil {
		return service.FleetSummary{}, nil
	}
	return s.summaryFn(ctx)
}

// simulatorStub satisfies service.Simulator; the HTTP layer never drives it.
type simulatorStub struct{}

func (simulatorStub) Run(ctx context.Context, tick time.Duration) {}
func (simulatorStub) Tick(ctx context.Context) error { return nil }

func stubServices(bins *binsStub, auth *authStub, analytics *analyticsStub) *service.Service {
	if bins == nil {
		bins = &binsStub{}
	}
	if auth == nil {
		auth = &authStub{}
	}
	if analytics == nil {
		analytics = &analyticsStub{}
	}
	return &service.Service{
		Bins:          bins,
		Authorization: auth,
		Analytics:     analytics,
		Simulator:     simulatorStub{},
	}
}

// newTestRouter builds a router over stub services and a hub with a fixed
// snapshot fleet.
func newTestRouter(svc *service.Service, snapshot ...smartbin.Bin) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewHandler(svc, hub.New(snapshotStub{bins: snapshot}, nil), nil, handlers.EnvDevelopment)
	return h.InitRoutes()
}
