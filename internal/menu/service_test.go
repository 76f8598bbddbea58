package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"cafe-pos/internal/domain"
	"cafe-pos/internal/network"
	"cafe-pos/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	items   []domain.MenuItem
	failing bool
	lists   int
}

func (f *fakeRepo) List(context.Context) ([]domain.MenuItem, error) {
	f.lists++
	if f.failing {
		return nil, remote.Transient(errors.New("backend down"))
	}
	return append([]domain.MenuItem(nil), f.items...), nil
}

func (f *fakeRepo) Create(_ context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	if f.failing {
		return domain.MenuItem{}, remote.Transient(errors.New("backend down"))
	}
	item.ID = "new"
	item.Available = true
	f.items = append(f.items, item)
	return item, nil
}

func (f *fakeRepo) Update(context.Context, domain.MenuItem) error { return nil }

func (f *fakeRepo) SetAvailable(context.Context, string, bool) error { return nil }

func newTestService(online bool, repo *fakeRepo) (*Service, *network.Monitor) {
	monitor := network.NewMonitor(nil, time.Second, time.Second, nil)
	monitor.Set(online)
	s := NewService(repo, monitor, nil)
	s.retry = remote.Backoff{Attempts: 1, Base: time.Millisecond, Timeout: time.Second}
	return s, monitor
}

func TestList_OnlineRefreshesCache(t *testing.T) {
	repo := &fakeRepo{items: []domain.MenuItem{{ID: "1", Name: "Irani Chai", Price: 12, Category: domain.CategoryHot}}}
	s, monitor := newTestService(true, repo)

	items, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Offline now: the cached catalog still serves.
	monitor.Set(false)
	items, err = s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Irani Chai", items[0].Name)
	assert.Equal(t, 1, repo.lists)
}

func TestList_BackendFailureFallsBackToCache(t *testing.T) {
	repo := &fakeRepo{items: []domain.MenuItem{{ID: "1", Name: "Irani Chai"}}}
	s, _ := newTestService(true, repo)

	_, err := s.List(context.Background())
	require.NoError(t, err)

	repo.failing = true
	items, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1) // stale beats empty
}

func TestCreate_OfflineIsRejected(t *testing.T) {
	s, _ := newTestService(false, &fakeRepo{})
	_, err := s.Create(context.Background(), domain.CreateMenuItemRequest{
		Name: "Samosa", Price: 15, Category: domain.CategorySnacks,
	})
	assert.ErrorIs(t, err, ErrOffline)
}

func TestCreate_Validation(t *testing.T) {
	s, _ := newTestService(true, &fakeRepo{})

	_, err := s.Create(context.Background(), domain.CreateMenuItemRequest{Price: 10, Category: domain.CategoryHot})
	assert.Error(t, err)

	_, err = s.Create(context.Background(), domain.CreateMenuItemRequest{Name: "Chai", Price: 0, Category: domain.CategoryHot})
	assert.Error(t, err)

	_, err = s.Create(context.Background(), domain.CreateMenuItemRequest{Name: "Chai", Price: 10, Category: "frozen"})
	assert.Error(t, err)
}

func TestCreate_HappyPath(t *testing.T) {
	repo := &fakeRepo{}
	s, _ := newTestService(true, repo)

	item, err := s.Create(context.Background(), domain.CreateMenuItemRequest{
		Name: "Samosa", Price: 15, Category: domain.CategorySnacks,
	})
	require.NoError(t, err)
	assert.Equal(t, "new", item.ID)
	assert.True(t, item.Available)
}
