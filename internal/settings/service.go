package settings

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

var ErrReservedName = errors.New("firm name is reserved")

type Service struct {
	repo   Repository
	clock  staging.Clock
	logger *zap.Logger
}

func NewService(repo Repository, clock staging.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = staging.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, clock: clock, logger: logger}
}

// CreateFirm registers a firm. "all" is the wildcard user scope and can
// never name a real firm.
func (s *Service) CreateFirm(ctx context.Context, req CreateFirmRequest) (*Firm, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.EqualFold(name, staging.ScopeAll) {
		return nil, ErrReservedName
	}
	firm := &Firm{
		ID:        uuid.New(),
		Name:      name,
		Active:    true,
		CreatedAt: s.clock.Now().In(staging.Kolkata()),
	}
	if err := s.repo.Create(ctx, firm); err != nil {
		return nil, err
	}
	s.logger.Info("firm registered", zap.String("name", firm.Name))
	return firm, nil
}

func (s *Service) ListFirms(ctx context.Context, activeOnly bool) ([]Firm, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *Service) SetFirmActive(ctx context.Context, id string, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}
