package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"farsiflash/internal/domain"
	"farsiflash/internal/repository"

	"go.uber.org/zap"
)

// Tier caps of a practice session
const (
	FailedCap = 2
	DueCap    = 2
)

// SessionService assembles practice sessions
type SessionService struct {
	itemRepo     repository.ItemRepository
	progressRepo repository.ProgressRepository
	logger       *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// SessionOption configures a SessionService
type SessionOption func(*SessionService)

// WithRand sets the randomness source used for sampling and the final shuffle
func WithRand(rng *rand.Rand) SessionOption {
	return func(s *SessionService) {
		s.rng = rng
	}
}

// WithClock sets the clock used to decide which items are due
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionService) {
		s.now = now
	}
}

// NewSessionService creates a new session service
func NewSessionService(itemRepo repository.ItemRepository, progressRepo repository.ProgressRepository, logger *zap.Logger, opts ...SessionOption) *SessionService {
	s := &SessionService{
		itemRepo:     itemRepo,
		progressRepo: progressRepo,
		logger:       logger,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// selection accumulates chosen items and the ids they exclude from later tiers
type selection struct {
	size     int
	items    []domain.Item
	excluded map[int64]struct{}
}

func (sel *selection) remaining() int {
	return sel.size - len(sel.items)
}

func (sel *selection) has(id int64) bool {
	_, ok := sel.excluded[id]
	return ok
}

func (sel *selection) add(item domain.Item) {
	sel.items = append(sel.items, item)
	sel.excluded[item.ID] = struct{}{}
}

func (sel *selection) excludedIDs() []int64 {
	ids := make([]int64, 0, len(sel.excluded))
	for id := range sel.excluded {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BuildSession returns min(size, active catalog size) distinct active items in random order.
// Failed items come first, then due ones, then new items at level, then any item at
// level, then any item at all. An empty catalog yields an empty session.
func (s *SessionService) BuildSession(ctx context.Context, userID int64, size, level int) ([]domain.Item, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidSessionSize, size)
	}
	if level < domain.MinLevel {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}

	records, err := s.progressRepo.ListProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	sel := &selection{size: size, excluded: make(map[int64]struct{})}
	now := s.now()

	failed, due := splitReviewQueues(records, now)

	nFailed, err := s.takeInOrder(ctx, sel, failed, FailedCap)
	if err != nil {
		return nil, err
	}
	nDue, err := s.takeInOrder(ctx, sel, due, DueCap)
	if err != nil {
		return nil, err
	}

	var nNew, nLevel, nAny int
	if sel.remaining() > 0 {
		levelItems, err := s.itemRepo.FindItemsByLevel(ctx, level, true)
		if err != nil {
			return nil, fmt.Errorf("failed to load items of level %d: %w", level, err)
		}

		seen := make(map[int64]struct{}, len(records))
		for _, r := range records {
			seen[r.ItemID] = struct{}{}
		}

		var unseen []domain.Item
		for _, it := range levelItems {
			if _, ok := seen[it.ID]; !ok {
				unseen = append(unseen, it)
			}
		}
		nNew = s.sample(sel, unseen)
		nLevel = s.sample(sel, levelItems)
	}

	if sel.remaining() > 0 {
		rest, err := s.itemRepo.FindItems(ctx, sel.excludedIDs())
		if err != nil {
			return nil, fmt.Errorf("failed to load fallback items: %w", err)
		}
		nAny = s.sample(sel, rest)
	}

	s.shuffle(sel.items)

	s.logger.Debug("Session built",
		zap.Int64("user_id", userID),
		zap.Int("level", level),
		zap.Int("size", len(sel.items)),
		zap.Int("failed", nFailed),
		zap.Int("due", nDue),
		zap.Int("new", nNew),
		zap.Int("level_fallback", nLevel),
		zap.Int("any_fallback", nAny),
	)

	if sel.items == nil {
		return []domain.Item{}, nil
	}
	return sel.items, nil
}

// splitReviewQueues returns failed item ids, worst streak first,
// and due item ids without a wrong streak, most overdue first
func splitReviewQueues(records []domain.Progress, now time.Time) (failed, due []int64) {
	var failedRecs, dueRecs []domain.Progress
	for _, r := range records {
		switch {
		case r.IsFailed():
			failedRecs = append(failedRecs, r)
		case r.IsDue(now):
			dueRecs = append(dueRecs, r)
		}
	}

	sort.SliceStable(failedRecs, func(i, j int) bool {
		if failedRecs[i].ConsecutiveWrong != failedRecs[j].ConsecutiveWrong {
			return failedRecs[i].ConsecutiveWrong > failedRecs[j].ConsecutiveWrong
		}
		return failedRecs[i].ItemID < failedRecs[j].ItemID
	})
	sort.SliceStable(dueRecs, func(i, j int) bool {
		if !dueRecs[i].NextReviewDate.Equal(dueRecs[j].NextReviewDate) {
			return dueRecs[i].NextReviewDate.Before(dueRecs[j].NextReviewDate)
		}
		return dueRecs[i].ItemID < dueRecs[j].ItemID
	})

	for _, r := range failedRecs {
		failed = append(failed, r.ItemID)
	}
	for _, r := range dueRecs {
		due = append(due, r.ItemID)
	}
	return failed, due
}

// takeInOrder adds up to limit items from ids, keeping their order
// and skipping ids that are no longer active in the catalog
func (s *SessionService) takeInOrder(ctx context.Context, sel *selection, ids []int64, limit int) (int, error) {
	if limit > sel.remaining() {
		limit = sel.remaining()
	}
	if limit <= 0 || len(ids) == 0 {
		return 0, nil
	}

	items, err := s.itemRepo.FindItemsByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to load reviewed items: %w", err)
	}
	byID := make(map[int64]domain.Item, len(items))
	for _, it := range items {
		if it.Active {
			byID[it.ID] = it
		}
	}

	taken := 0
	for _, id := range ids {
		if taken == limit {
			break
		}
		it, ok := byID[id]
		if !ok || sel.has(id) {
			continue
		}
		sel.add(it)
		taken++
	}
	return taken, nil
}

// sample adds randomly chosen items from candidates until the session is full
func (s *SessionService) sample(sel *selection, candidates []domain.Item) int {
	pool := make([]domain.Item, 0, len(candidates))
	for _, it := range candidates {
		if it.Active && !sel.has(it.ID) {
			pool = append(pool, it)
		}
	}

	s.shuffle(pool)

	taken := 0
	for _, it := range pool {
		if sel.remaining() == 0 {
			break
		}
		if sel.has(it.ID) {
			continue
		}
		sel.add(it)
		taken++
	}
	return taken
}

// shuffle permutes items in place (Fisher-Yates)
func (s *SessionService) shuffle(items []domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(items) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
