package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spectra-eyewear/spectra-backend/pkg/clock"
	"github.com/spectra-eyewear/spectra-backend/pkg/config"
	pkgerrors "github.com/spectra-eyewear/spectra-backend/pkg/errors"
	"github.com/spectra-eyewear/spectra-backend/pkg/logger"
	"github.com/spectra-eyewear/spectra-backend/pkg/metrics"
	"github.com/spectra-eyewear/spectra-backend/pkg/types"
)

// Transition rejections. These are the only cart errors expected to reach
// callers as errors; validation elsewhere is value-returning.
var (
	ErrInvalidQuantity       = errors.New("quantity must be at least 1")
	ErrQuantityLimitExceeded = fmt.Errorf("quantity limit of %d exceeded", MaxQtyPerItem)
)

// AddOutcomeKind reports which branch an add transition took.
type AddOutcomeKind string

const (
	AddMerged   AddOutcomeKind = "merged"
	AddInserted AddOutcomeKind = "inserted"
)

// AddOutcome describes the result of an add transition.
type AddOutcome struct {
	Kind        AddOutcomeKind `json:"kind"`
	ItemID      int64          `json:"item_id"`
	NewQuantity int            `json:"new_quantity"`
}

// NewItem is a candidate line item before an identity has been minted.
type NewItem struct {
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Quantity  int               `json:"quantity"`
	Color     string            `json:"color,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Service applies cart state transitions and persists the collection after
// every successful one.
type Service interface {
	Items(ctx context.Context, token string) ([]types.LineItem, error)
	Add(ctx context.Context, token string, input NewItem) (AddOutcome, []types.LineItem, error)
	UpdateQuantity(ctx context.Context, token string, itemID int64, quantity int) ([]types.LineItem, error)
	Remove(ctx context.Context, token string, itemID int64) ([]types.LineItem, error)
	Clear(ctx context.Context, token string) error
}

type service struct {
	slots     SlotStore
	staleness time.Duration
	clk       clock.Clock
	logg      *logger.Logger
	mtr       *metrics.CheckoutMetrics

	nextID atomic.Int64
}

// NewService builds the cart service. The id sequence is seeded from the
// clock so identities stay unique across restarts of the same slot.
func NewService(slots SlotStore, cfg config.CartConfig, clk clock.Clock, logg *logger.Logger, mtr *metrics.CheckoutMetrics) (Service, error) {
	if slots == nil {
		return nil, fmt.Errorf("slot store required")
	}
	if clk == nil {
		clk = clock.System()
	}
	staleness := cfg.StalenessWindow
	if staleness <= 0 {
		staleness = StalenessWindow
	}
	s := &service{slots: slots, staleness: staleness, clk: clk, logg: logg, mtr: mtr}
	s.nextID.Store(clk.Now().UnixMilli())
	return s, nil
}

// Items loads the persisted collection, degrading to empty on any read
// failure, corruption, or staleness. Cart recovery is a convenience, not a
// guarantee; only write failures reject a transition.
func (s *service) Items(ctx context.Context, token string) ([]types.LineItem, error) {
	blob, found, err := s.slots.Read(ctx, token)
	if err != nil {
		if s.logg != nil {
			logCtx := s.logg.WithCartToken(ctx, token)
			s.logg.Warn(logCtx, "cart.slot_read_failed")
		}
		return []types.LineItem{}, nil
	}
	if !found {
		return []types.LineItem{}, nil
	}

	var record Record
	if err := json.Unmarshal([]byte(blob), &record); err != nil {
		s.discard(ctx, token, "malformed")
		return []types.LineItem{}, nil
	}
	if result := ValidateCart(record.Items); !result.Valid {
		s.discard(ctx, token, "invalid")
		return []types.LineItem{}, nil
	}
	age := s.clk.Now().UnixMilli() - record.Timestamp
	if age > s.staleness.Milliseconds() {
		s.discard(ctx, token, "stale")
		return []types.LineItem{}, nil
	}
	if record.Items == nil {
		record.Items = []types.LineItem{}
	}
	return record.Items, nil
}

func (s *service) Add(ctx context.Context, token string, input NewItem) (AddOutcome, []types.LineItem, error) {
	items, err := s.Items(ctx, token)
	if err != nil {
		return AddOutcome{}, nil, err
	}

	candidate := types.LineItem{
		ProductID: input.ProductID,
		Name:      input.Name,
		UnitPrice: input.UnitPrice,
		Quantity:  input.Quantity,
		Color:     input.Color,
		Metadata:  input.Metadata,
	}

	for i, existing := range items {
		if !existing.SameSelection(candidate) {
			continue
		}
		merged := existing.Quantity + candidate.Quantity
		if merged > MaxQtyPerItem {
			return AddOutcome{}, nil, ErrQuantityLimitExceeded
		}
		items[i].Quantity = merged
		if err := s.persist(ctx, token, items); err != nil {
			return AddOutcome{}, nil, err
		}
		s.mtr.IncCartOperation("add", string(AddMerged))
		return AddOutcome{Kind: AddMerged, ItemID: existing.ID, NewQuantity: merged}, items, nil
	}

	if len(items) >= MaxItemsInCart {
		return AddOutcome{}, nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("cart is full (limit %d items)", MaxItemsInCart))
	}

	candidate.ID = s.nextID.Add(1)
	if result := ValidateItem(candidate); !result.Valid {
		return AddOutcome{}, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid line item").
			WithDetails(map[string]any{"errors": result.Errors})
	}

	items = append(items, candidate)
	if err := s.persist(ctx, token, items); err != nil {
		return AddOutcome{}, nil, err
	}
	s.mtr.IncCartOperation("add", string(AddInserted))
	return AddOutcome{Kind: AddInserted, ItemID: candidate.ID, NewQuantity: candidate.Quantity}, items, nil
}

// UpdateQuantity replaces the quantity on the matching item. An absent id is
// treated as already satisfied, not an error.
func (s *service) UpdateQuantity(ctx context.Context, token string, itemID int64, quantity int) ([]types.LineItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if quantity > MaxQtyPerItem {
		return nil, ErrQuantityLimitExceeded
	}

	items, err := s.Items(ctx, token)
	if err != nil {
		return nil, err
	}

	for i, item := range items {
		if item.ID != itemID {
			continue
		}
		items[i].Quantity = quantity
		if err := s.persist(ctx, token, items); err != nil {
			return nil, err
		}
		s.mtr.IncCartOperation("update_quantity", "ok")
		return items, nil
	}

	return items, nil
}

func (s *service) Remove(ctx context.Context, token string, itemID int64) ([]types.LineItem, error) {
	items, err := s.Items(ctx, token)
	if err != nil {
		return nil, err
	}

	kept := items[:0]
	removed := false
	for _, item := range items {
		if item.ID == itemID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return items, nil
	}

	if err := s.persist(ctx, token, kept); err != nil {
		return nil, err
	}
	s.mtr.IncCartOperation("remove", "ok")
	return kept, nil
}

// Clear resets the collection, typically after a confirmed order.
func (s *service) Clear(ctx context.Context, token string) error {
	if err := s.slots.Delete(ctx, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart slot")
	}
	s.mtr.IncCartOperation("clear", "ok")
	return nil
}

func (s *service) persist(ctx context.Context, token string, items []types.LineItem) error {
	record := Record{
		Items:     items,
		Timestamp: s.clk.Now().UnixMilli(),
		Version:   SchemaVersion,
	}
	blob, err := json.Marshal(record)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart record")
	}
	if err := s.slots.Write(ctx, token, string(blob)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write cart slot")
	}
	return nil
}

func (s *service) discard(ctx context.Context, token string, reason string) {
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"cart_token": token,
			"reason":     reason,
		})
		s.logg.Warn(logCtx, "cart.slot_discarded")
	}
	// best effort; a failed delete only means the blob is discarded again
	// on the next read
	_ = s.slots.Delete(ctx, token)
}
