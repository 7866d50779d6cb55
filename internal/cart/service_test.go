package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spectra-eyewear/spectra-backend/pkg/clock"
	"github.com/spectra-eyewear/spectra-backend/pkg/config"
	"github.com/spectra-eyewear/spectra-backend/pkg/types"
)

type memorySlotStore struct {
	blobs map[string]string
}

func newMemorySlotStore() *memorySlotStore {
	return &memorySlotStore{blobs: map[string]string{}}
}

func (m *memorySlotStore) Read(ctx context.Context, token string) (string, bool, error) {
	blob, ok := m.blobs[token]
	return blob, ok, nil
}

func (m *memorySlotStore) Write(ctx context.Context, token, blob string) error {
	m.blobs[token] = blob
	return nil
}

func (m *memorySlotStore) Delete(ctx context.Context, token string) error {
	delete(m.blobs, token)
	return nil
}

func newTestService(t *testing.T) (Service, *memorySlotStore, *clock.Fake) {
	t.Helper()
	slots := newMemorySlotStore()
	clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, err := NewService(slots, config.CartConfig{}, clk, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, slots, clk
}

func addInput(productID, color string, qty int) NewItem {
	return NewItem{
		ProductID: productID,
		Name:      "Spectra One",
		UnitPrice: decimal.NewFromInt(2499),
		Quantity:  qty,
		Color:     color,
	}
}

func TestAddInsertsNewItem(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	outcome, items, err := svc.Add(ctx, "tok", addInput("spectra-one", "onyx", 1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if outcome.Kind != AddInserted {
		t.Fatalf("expected inserted outcome, got %s", outcome.Kind)
	}
	if outcome.ItemID <= 0 {
		t.Fatalf("expected minted id, got %d", outcome.ItemID)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestAddMergesMatchingSelection(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, _, err := svc.Add(ctx, "tok", addInput("spectra-one", "onyx", 2))
	if err != nil {
		t.Fatalf("first add: %v", err)
	}

	outcome, items, err := svc.Add(ctx, "tok", addInput("spectra-one", "onyx", 3))
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if outcome.Kind != AddMerged {
		t.Fatalf("expected merged outcome, got %s", outcome.Kind)
	}
	if outcome.ItemID != first.ItemID {
		t.Fatalf("merge should keep the original id")
	}
	if outcome.NewQuantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", outcome.NewQuantity)
	}
	if len(items) != 1 {
		t.Fatalf("merge must not create a second entry, got %d items", len(items))
	}
}

func TestAddDistinctColorInserts(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Add(ctx, "tok", addInput("spectra-one", "onyx", 1)); err != nil {
		t.Fatalf("first add: %v", err)
	}
	outcome, items, err := svc.Add(ctx, "tok", addInput("spectra-one", "arctic", 1))
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if outcome.Kind != AddInserted {
		t.Fatalf("distinct color should insert, got %s", outcome.Kind)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestAddRejectsMergeBeyondLimit(t *testing.T) {
	svc, slots, _ := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Add(ctx, "tok", addInput("spectra-one", "onyx", MaxQtyPerItem)); err != nil {
		t.Fatalf("seed add: %v", err)
	}
	before := slots.blobs["tok"]

	_, _, err := svc.Add(ctx, "tok", addInput("spectra-one", "onyx", 1))
	if !errors.Is(err, ErrQuantityLimitExceeded) {
		t.Fatalf("expected ErrQuantityLimitExceeded, got %v", err)
	}
	if slots.blobs["tok"] != before {
		t.Fatal("rejected transition must not mutate the persisted cart")
	}
}

func TestUpdateQuantityBounds(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	outcome, _, err := svc.Add(ctx, "tok", addInput("spectra-one", "onyx", 1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := svc.UpdateQuantity(ctx, "tok", outcome.ItemID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.UpdateQuantity(ctx, "tok", outcome.ItemID, MaxQtyPerItem+1); !errors.Is(err, ErrQuantityLimitExceeded) {
		t.Fatalf("expected ErrQuantityLimitExceeded, got %v", err)
	}

	items, err := svc.UpdateQuantity(ctx, "tok", outcome.ItemID, 4)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", items[0].Quantity)
	}
}

func TestUpdateQuantityMissingIDIsNoop(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	items, err := svc.UpdateQuantity(ctx, "tok", 9999, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}

func TestRemoveFiltersItem(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	outcome, _, err := svc.Add(ctx, "tok", addInput("spectra-one", "onyx", 1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	items, err := svc.Remove(ctx, "tok", outcome.ItemID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart after remove, got %d", len(items))
	}

	// removing again is a no-op
	if _, err := svc.Remove(ctx, "tok", outcome.ItemID); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestClearEmptiesSlot(t *testing.T) {
	svc, slots, _ := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Add(ctx, "tok", addInput("spectra-one", "onyx", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(ctx, "tok"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := slots.blobs["tok"]; ok {
		t.Fatal("expected slot to be deleted")
	}
}

func TestItemsDiscardsStaleRecord(t *testing.T) {
	svc, slots, clk := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Add(ctx, "tok", addInput("spectra-one", "onyx", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}

	clk.Advance(8 * 24 * time.Hour)

	items, err := svc.Items(ctx, "tok")
	if err != nil {
		t.Fatalf("stale cart must load as empty, got error %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
	if _, ok := slots.blobs["tok"]; ok {
		t.Fatal("stale blob should be dropped")
	}
}

func TestItemsSurvivesWithinStalenessWindow(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Add(ctx, "tok", addInput("spectra-one", "onyx", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}

	clk.Advance(6 * 24 * time.Hour)

	items, err := svc.Items(ctx, "tok")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected recovered cart, got %d items", len(items))
	}
}

type failingSlotStore struct {
	*memorySlotStore
	readErr  error
	writeErr error
}

func (f *failingSlotStore) Read(ctx context.Context, token string) (string, bool, error) {
	if f.readErr != nil {
		return "", false, f.readErr
	}
	return f.memorySlotStore.Read(ctx, token)
}

func (f *failingSlotStore) Write(ctx context.Context, token, blob string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.memorySlotStore.Write(ctx, token, blob)
}

func TestItemsDegradesOnReadFailure(t *testing.T) {
	slots := &failingSlotStore{
		memorySlotStore: newMemorySlotStore(),
		readErr:         errors.New("connection refused"),
	}
	svc, err := NewService(slots, config.CartConfig{}, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	items, err := svc.Items(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unreachable store must load as empty, got error %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}

func TestAddSurfacesWriteFailure(t *testing.T) {
	slots := &failingSlotStore{
		memorySlotStore: newMemorySlotStore(),
		writeErr:        errors.New("connection refused"),
	}
	svc, err := NewService(slots, config.CartConfig{}, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, _, err := svc.Add(context.Background(), "tok", addInput("spectra-one", "onyx", 1)); err == nil {
		t.Fatal("a transition that cannot persist must be rejected")
	}
}

func TestConfiguredStalenessWindow(t *testing.T) {
	slots := newMemorySlotStore()
	clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, err := NewService(slots, config.CartConfig{StalenessWindow: time.Hour}, clk, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	if _, _, err := svc.Add(ctx, "tok", addInput("spectra-one", "onyx", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}

	clk.Advance(2 * time.Hour)

	items, err := svc.Items(ctx, "tok")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected discard after the configured window, got %d items", len(items))
	}
}

func TestItemsDiscardsMalformedBlob(t *testing.T) {
	svc, slots, _ := newTestService(t)
	ctx := context.Background()

	slots.blobs["tok"] = "{not json"

	items, err := svc.Items(ctx, "tok")
	if err != nil {
		t.Fatalf("malformed blob must load as empty, got error %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}

func TestItemsDiscardsInvalidStoredCart(t *testing.T) {
	svc, slots, clk := newTestService(t)
	ctx := context.Background()

	record := Record{
		Items: []types.LineItem{{
			ID:        1,
			ProductID: "spectra-one",
			Name:      "Spectra One",
			UnitPrice: decimal.NewFromInt(-5),
			Quantity:  1,
		}},
		Timestamp: clk.Now().UnixMilli(),
		Version:   SchemaVersion,
	}
	blob, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	slots.blobs["tok"] = string(blob)

	items, err := svc.Items(ctx, "tok")
	if err != nil {
		t.Fatalf("invalid stored cart must load as empty, got error %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}

func TestPersistedRecordCarriesVersionAndTimestamp(t *testing.T) {
	svc, slots, clk := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Add(ctx, "tok", addInput("spectra-one", "onyx", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}

	var record Record
	if err := json.Unmarshal([]byte(slots.blobs["tok"]), &record); err != nil {
		t.Fatalf("unmarshal persisted record: %v", err)
	}
	if record.Version != SchemaVersion {
		t.Fatalf("expected version %q, got %q", SchemaVersion, record.Version)
	}
	if record.Timestamp != clk.Now().UnixMilli() {
		t.Fatalf("expected timestamp %d, got %d", clk.Now().UnixMilli(), record.Timestamp)
	}
}
