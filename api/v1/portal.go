package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"procurehub/store-portal/store-portal-backend/internal/auth"
	"procurehub/store-portal/store-portal-backend/internal/billing"
	"procurehub/store-portal/store-portal-backend/internal/config"
	"procurehub/store-portal/store-portal-backend/internal/indents"
	"procurehub/store-portal/store-portal-backend/internal/inventory"
	"procurehub/store-portal/store-portal-backend/internal/notifications"
	"procurehub/store-portal/store-portal-backend/internal/procurement"
	"procurehub/store-portal/store-portal-backend/internal/reports"
	"procurehub/store-portal/store-portal-backend/internal/settings"
	"procurehub/store-portal/store-portal-backend/internal/vendors"
	"procurehub/store-portal/store-portal-backend/pkg/pdf"
	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

// Fanout delivers every stage event to all registered listeners.
type Fanout struct {
	listeners []procurement.Notifier
}

func (f *Fanout) Add(n procurement.Notifier) {
	f.listeners = append(f.listeners, n)
}

func (f *Fanout) StageCompleted(ctx context.Context, event procurement.StageEvent) {
	for _, l := range f.listeners {
		l.StageCompleted(ctx, event)
	}
}

// cacheInvalidator flushes the dashboard cache when the board changes.
type cacheInvalidator struct {
	dashboard *reports.Service
}

func (c cacheInvalidator) StageCompleted(ctx context.Context, event procurement.StageEvent) {
	c.dashboard.Invalidate()
}

// PortalAPI owns every module of the portal backend and registers their
// routes.
type PortalAPI struct {
	Auth          *auth.Service
	Board         *procurement.Service
	Dashboard     *reports.Service
	Notifications *notifications.Service
	WSManager     *notifications.Manager

	handlers []interface {
		RegisterRoutes(rg *gin.RouterGroup)
	}
}

// SetupPortalAPI wires every module against the shared database handles
// and blob store.
func SetupPortalAPI(db *sqlx.DB, gdb *gorm.DB, blobs staging.BlobStore, cfg *config.Config, logger *zap.Logger) (*PortalAPI, error) {
	registry := procurement.NewRegistry()
	clock := staging.SystemClock{}
	engine := staging.NewEngine(registry, clock, blobs, staging.Kolkata())

	authService := auth.NewService(auth.NewPostgresRepository(db), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger)

	fanout := &Fanout{}
	board := procurement.NewService(procurement.NewPostgresRepository(db, registry), engine, fanout, logger)

	wsManager := notifications.NewManager(logger)
	notifService, err := notifications.NewService(gdb, wsManager, logger)
	if err != nil {
		return nil, err
	}
	fanout.Add(notifService)

	stockService := inventory.NewService(inventory.NewPostgresRepository(db), clock, logger)
	fanout.Add(inventory.NewStageListener(stockService, logger))

	dashboard := reports.NewService(board, db, 5*time.Minute, logger)
	fanout.Add(cacheInvalidator{dashboard: dashboard})

	indentService := indents.NewService(indents.NewPostgresRepository(db), clock, logger)
	vendorService := vendors.NewService(vendors.NewPostgresRepository(db), pdf.NewGenerator(), clock, logger)
	firmService := settings.NewService(settings.NewPostgresRepository(db), clock, logger)

	billingService, err := billing.NewService(gdb, clock, logger)
	if err != nil {
		return nil, err
	}

	api := &PortalAPI{
		Auth:          authService,
		Board:         board,
		Dashboard:     dashboard,
		Notifications: notifService,
		WSManager:     wsManager,
	}
	api.handlers = []interface {
		RegisterRoutes(rg *gin.RouterGroup)
	}{
		auth.NewHandler(authService),
		procurement.NewHandler(board, authService),
		indents.NewHandler(indentService, authService),
		vendors.NewHandler(vendorService, authService),
		inventory.NewHandler(stockService, authService),
		billing.NewHandler(billingService, authService),
		notifications.NewHandler(notifService, wsManager, authService),
		reports.NewHandler(dashboard, authService),
		settings.NewHandler(firmService, authService),
	}
	return api, nil
}

// RegisterRoutes mounts every module under the given group.
func (api *PortalAPI) RegisterRoutes(rg *gin.RouterGroup) {
	for _, h := range api.handlers {
		h.RegisterRoutes(rg)
	}
}

// Close releases long-lived resources.
func (api *PortalAPI) Close() {
	api.WSManager.Close()
}
