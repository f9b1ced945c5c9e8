package testutil

import (
	"context"

	"farsiflash/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AuthorizeUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureUserExists(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) GetLevel(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) SetLevel(ctx context.Context, userID int64, level int) error {
	args := m.Called(ctx, userID, level)
	return args.Error(0)
}

func (m *MockUserRepository) ListAuthorized(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockItemRepository is a mock for ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindItemsByLevel(ctx context.Context, level int, activeOnly bool) ([]domain.Item, error) {
	args := m.Called(ctx, level, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemRepository) FindItems(ctx context.Context, excludeIDs []int64) ([]domain.Item, error) {
	args := m.Called(ctx, excludeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemRepository) FindItemsByIDs(ctx context.Context, ids []int64) ([]domain.Item, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemRepository) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemRepository) UpsertItem(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// MockProgressRepository is a mock for ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) FindProgress(ctx context.Context, userID, itemID int64) (*domain.Progress, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Progress), args.Error(1)
}

func (m *MockProgressRepository) ListProgress(ctx context.Context, userID int64) ([]domain.Progress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Progress), args.Error(1)
}

func (m *MockProgressRepository) SaveProgress(ctx context.Context, p *domain.Progress) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// UpdateProgress feeds the configured prior record (first return value, may be nil)
// through fn, like a store holding that record would.
func (m *MockProgressRepository) UpdateProgress(ctx context.Context, userID, itemID int64, fn domain.ProgressMutator) (*domain.Progress, error) {
	args := m.Called(ctx, userID, itemID, fn)
	if err := args.Error(1); err != nil {
		return nil, err
	}

	var prior *domain.Progress
	if p, ok := args.Get(0).(*domain.Progress); ok && p != nil {
		cp := *p
		prior = &cp
	}

	next, err := fn(prior)
	if err != nil {
		return nil, err
	}
	next.UserID = userID
	next.ItemID = itemID
	next.Version = 1
	if prior != nil {
		next.Version = prior.Version + 1
	}
	return &next, nil
}

// MockNotifier is a mock for reminder.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendReminder(userID int64, due int) error {
	args := m.Called(userID, due)
	return args.Error(0)
}
