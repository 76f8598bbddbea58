// Package menu serves the item catalog: backend-owned, cached locally so the
// ordering screen keeps working through an outage.
package menu

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cafe-pos/internal/common/logger"
	"cafe-pos/internal/domain"
	"cafe-pos/internal/network"
	"cafe-pos/internal/remote"
)

// ErrOffline is returned for admin mutations attempted without connectivity.
// Menu edits are explicit admin actions and are not queued.
var ErrOffline = errors.New("menu changes require a backend connection")

type Service struct {
	repo    RepositoryInterface
	monitor *network.Monitor
	retry   remote.Backoff
	lg      *logger.Logger

	mu    sync.Mutex
	cache []domain.MenuItem
}

func NewService(repo RepositoryInterface, monitor *network.Monitor, lg *logger.Logger) *Service {
	return &Service{repo: repo, monitor: monitor, retry: remote.DefaultBackoff(), lg: lg}
}

// List refreshes from the backend when online and falls back to the cached
// catalog otherwise. A stale menu beats an empty screen.
func (s *Service) List(ctx context.Context) ([]domain.MenuItem, error) {
	if s.monitor.Online() {
		var items []domain.MenuItem
		err := remote.Do(ctx, s.retry, func(ctx context.Context) error {
			var err error
			items, err = s.repo.List(ctx)
			return err
		})
		if err == nil {
			s.mu.Lock()
			s.cache = items
			s.mu.Unlock()
			return append([]domain.MenuItem(nil), items...), nil
		}
		if s.lg != nil {
			s.lg.Warn("menu_refresh_failed", err, nil)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.MenuItem(nil), s.cache...), nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateMenuItemRequest) (domain.MenuItem, error) {
	if req.Name == "" {
		return domain.MenuItem{}, errors.New("name is required")
	}
	if req.Price <= 0 {
		return domain.MenuItem{}, fmt.Errorf("invalid price for item %s", req.Name)
	}
	if !req.Category.Valid() {
		return domain.MenuItem{}, fmt.Errorf("invalid category %q", req.Category)
	}
	if !s.monitor.Online() {
		return domain.MenuItem{}, ErrOffline
	}

	var created domain.MenuItem
	err := remote.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		created, err = s.repo.Create(ctx, domain.MenuItem{
			Name: req.Name, Price: req.Price, Category: req.Category, ImageURL: req.ImageURL,
		})
		return err
	})
	if err != nil {
		return domain.MenuItem{}, err
	}
	s.invalidate()
	return created, nil
}

func (s *Service) Update(ctx context.Context, item domain.MenuItem) error {
	if !s.monitor.Online() {
		return ErrOffline
	}
	err := remote.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.repo.Update(ctx, item)
	})
	if err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) SetAvailable(ctx context.Context, id string, available bool) error {
	if !s.monitor.Online() {
		return ErrOffline
	}
	err := remote.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.repo.SetAvailable(ctx, id, available)
	})
	if err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}
