package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"goodtime-diagnostic/internal/model"
	"goodtime-diagnostic/internal/repository"
)

var (
	ErrStatusUnavailable = errors.New("status checks need MongoDB")
	ErrClientNameMissing = errors.New("client_name is required")
)

const statusListLimit = 1000

// StatusService records the clients calling in
type StatusService struct {
	repo repository.StatusRepo
	now  func() time.Time
}

// NewStatusService creates a new status service. repo may be nil.
func NewStatusService(repo repository.StatusRepo) *StatusService {
	return &StatusService{repo: repo, now: time.Now}
}

// Create stores a new status check
func (s *StatusService) Create(ctx context.Context, in model.StatusCheckCreate) (*model.StatusCheck, error) {
	if s.repo == nil {
		return nil, ErrStatusUnavailable
	}
	name := strings.TrimSpace(in.ClientName)
	if name == "" {
		return nil, ErrClientNameMissing
	}
	check := &model.StatusCheck{
		ID:         uuid.New().String(),
		ClientName: name,
		Timestamp:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, check); err != nil {
		return nil, err
	}
	return check, nil
}

// List returns the stored status checks
func (s *StatusService) List(ctx context.Context) ([]*model.StatusCheck, error) {
	if s.repo == nil {
		return nil, ErrStatusUnavailable
	}
	return s.repo.List(ctx, statusListLimit)
}
