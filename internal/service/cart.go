package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/event"
	"github.com/utafrali/RestaurantGo/internal/storage"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
)

// Cart limits.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single line.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct lines.
	MaxItemsPerCart = 50
)

// CartService is the in-memory cart, mirrored to device storage after every
// change. The in-memory lines are authoritative; a failed write is logged.
type CartService struct {
	store     storage.Store
	analytics *event.Analytics
	logger    *slog.Logger

	mu    sync.RWMutex
	lines []domain.CartLine

	// persistMu orders writes so the stored cart always ends at the latest
	// in-memory state.
	persistMu sync.Mutex
}

func NewCartService(store storage.Store, analytics *event.Analytics, logger *slog.Logger) *CartService {
	return &CartService{
		store:     store,
		analytics: analytics,
		logger:    logger,
	}
}

// Load restores the persisted cart. A malformed record is dropped.
func (s *CartService) Load(ctx context.Context) error {
	var lines []domain.CartLine
	found, err := storage.GetJSON(ctx, s.store, storage.KeyCart, &lines)
	switch {
	case err != nil && found:
		s.logger.WarnContext(ctx, "discarding malformed stored cart", slog.String("error", err.Error()))
		if rmErr := s.store.Remove(ctx, storage.KeyCart); rmErr != nil {
			s.logger.WarnContext(ctx, "failed to remove stored cart", slog.String("error", rmErr.Error()))
		}
		lines = nil
	case err != nil:
		return fmt.Errorf("load cart: %w", err)
	}

	kept := lines[:0]
	for _, l := range lines {
		if l.MenuItemID != "" && l.Quantity > 0 {
			kept = append(kept, l)
		}
	}

	s.mu.Lock()
	s.lines = kept
	s.mu.Unlock()
	return nil
}

// Add puts one unit of an item in the cart. An existing line for the same menu
// item gains one unit, takes the new name and price snapshot and keeps its
// image reference when it already has one.
func (s *CartService) Add(ctx context.Context, in domain.AddToCartInput) (domain.CartSnapshot, error) {
	if err := validateInput(in); err != nil {
		return domain.CartSnapshot{}, err
	}

	s.mu.Lock()
	var added domain.CartLine
	found := false
	for i := range s.lines {
		l := &s.lines[i]
		if l.MenuItemID != in.MenuItemID {
			continue
		}
		if l.Quantity+1 > MaxQuantityPerItem {
			s.mu.Unlock()
			return domain.CartSnapshot{}, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
		}
		l.Quantity++
		l.Name = in.Name
		l.Price = in.Price
		if l.ImageURL == "" {
			l.ImageURL = in.ImageURL
		}
		added = *l
		found = true
		break
	}
	if !found {
		if len(s.lines) >= MaxItemsPerCart {
			s.mu.Unlock()
			return domain.CartSnapshot{}, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
		}
		added = domain.CartLine{
			MenuItemID: in.MenuItemID,
			Name:       in.Name,
			Price:      in.Price,
			Quantity:   1,
			ImageURL:   in.ImageURL,
			Modifiers:  append([]domain.SelectedModifier(nil), in.Modifiers...),
			Note:       in.Note,
		}
		s.lines = append(s.lines, added)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx)
	s.analytics.CartItemAdded(ctx, added)
	return snap, nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, id domain.ID, quantity int) (domain.CartSnapshot, error) {
	if quantity > MaxQuantityPerItem {
		return domain.CartSnapshot{}, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.CartSnapshot{}, apperrors.NotFound("cart item", id.String())
	}
	if quantity <= 0 {
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	} else {
		s.lines[idx].Quantity = quantity
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx)
	return snap, nil
}

// Remove deletes a line. Removing an absent id is a no-op.
func (s *CartService) Remove(ctx context.Context, id domain.ID) domain.CartSnapshot {
	s.mu.Lock()
	if idx := s.indexLocked(id); idx >= 0 {
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx)
	return snap
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()

	s.persist(ctx)
}

// RemoveOrdered takes the units of ordered out of the cart. Lines added, or
// quantities raised, after the order snapshot was taken stay in the cart.
func (s *CartService) RemoveOrdered(ctx context.Context, ordered []domain.CartLine) domain.CartSnapshot {
	s.mu.Lock()
	for _, o := range ordered {
		idx := s.indexLocked(o.MenuItemID)
		if idx < 0 {
			continue
		}
		if left := s.lines[idx].Quantity - o.Quantity; left > 0 {
			s.lines[idx].Quantity = left
		} else {
			s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
		}
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx)
	return snap
}

// Items returns a copy of the cart lines.
func (s *CartService) Items() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyLines(s.lines)
}

// Total is the sum of every line total.
func (s *CartService) Total() domain.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalOf(s.lines)
}

// Count is the number of units across all lines.
func (s *CartService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return countOf(s.lines)
}

func (s *CartService) Snapshot() domain.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *CartService) snapshotLocked() domain.CartSnapshot {
	return domain.CartSnapshot{
		Items: copyLines(s.lines),
		Count: countOf(s.lines),
		Total: totalOf(s.lines),
	}
}

func (s *CartService) indexLocked(id domain.ID) int {
	for i := range s.lines {
		if s.lines[i].MenuItemID == id {
			return i
		}
	}
	return -1
}

func (s *CartService) persist(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	lines := s.Items()
	var err error
	if len(lines) == 0 {
		err = s.store.Remove(ctx, storage.KeyCart)
	} else {
		err = storage.SetJSON(ctx, s.store, storage.KeyCart, lines)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "failed to persist cart", slog.String("error", err.Error()))
	}
}

func copyLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines))
	for i, l := range lines {
		l.Modifiers = append([]domain.SelectedModifier(nil), l.Modifiers...)
		out[i] = l
	}
	return out
}

func totalOf(lines []domain.CartLine) domain.Money {
	var total domain.Money
	for _, l := range lines {
		total += l.Total()
	}
	return total
}

func countOf(lines []domain.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
