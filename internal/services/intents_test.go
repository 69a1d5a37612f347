package services

import (
	"context"
	"errors"
	"testing"

	"github.com/alsetso/alsetmaps-backend/internal/models"
)

func int64p(v int64) *int64 { return &v }

func TestIntentCreate(t *testing.T) {
	svc := NewIntentService(newTestDB(t))

	intent, err := svc.Create(context.Background(), 1, &CreateIntentRequest{
		Location: "Austin, TX",
		MinPrice: int64p(300000),
		MaxPrice: int64p(500000),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if intent.Status != models.IntentStatusActive {
		t.Errorf("Status = %q, want active", intent.Status)
	}
}

func TestIntentCreateValidation(t *testing.T) {
	svc := NewIntentService(newTestDB(t))

	if _, err := svc.Create(context.Background(), 1, &CreateIntentRequest{Location: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty location: err = %v, want ErrInvalidInput", err)
	}
	_, err := svc.Create(context.Background(), 1, &CreateIntentRequest{
		Location: "Austin, TX",
		MinPrice: int64p(600000),
		MaxPrice: int64p(500000),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("inverted price range: err = %v, want ErrInvalidInput", err)
	}
}

func TestIntentListShowsOnlyActive(t *testing.T) {
	svc := NewIntentService(newTestDB(t))

	active, err := svc.Create(context.Background(), 1, &CreateIntentRequest{Location: "Austin, TX"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	withdrawn, err := svc.Create(context.Background(), 1, &CreateIntentRequest{Location: "Dallas, TX"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Withdraw(context.Background(), 1, withdrawn.ID); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}

	resp, err := svc.List(context.Background(), &IntentFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].ID != active.ID {
		t.Fatalf("List returned %d intents, want only the active one", resp.Total)
	}

	// the owner still sees the withdrawn one
	mine, err := svc.ListMine(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("ListMine returned %d intents, want 2", len(mine))
	}
}

func TestIntentListFilters(t *testing.T) {
	svc := NewIntentService(newTestDB(t))

	austin, err := svc.Create(context.Background(), 1, &CreateIntentRequest{
		Location: "Austin, TX",
		MaxPrice: int64p(400000),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), 2, &CreateIntentRequest{
		Location: "Dallas, TX",
		MaxPrice: int64p(900000),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// no budget stated; must still match any price cap
	openBudget, err := svc.Create(context.Background(), 3, &CreateIntentRequest{Location: "Austin suburbs"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp, err := svc.List(context.Background(), &IntentFilter{Location: "austin"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("location filter returned %d intents, want 2", resp.Total)
	}

	resp, err = svc.List(context.Background(), &IntentFilter{MaxPrice: 500000})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("price filter returned %d intents, want 2", resp.Total)
	}
	ids := map[uint]bool{}
	for _, it := range resp.Items {
		ids[it.ID] = true
	}
	if !ids[austin.ID] || !ids[openBudget.ID] {
		t.Error("price filter should match the budgeted Austin intent and the open-budget one")
	}
}

func TestIntentWithdrawOwnership(t *testing.T) {
	svc := NewIntentService(newTestDB(t))

	intent, err := svc.Create(context.Background(), 1, &CreateIntentRequest{Location: "Austin, TX"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Withdraw(context.Background(), 2, intent.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Withdraw by non-owner: err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), 2, intent.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete by non-owner: err = %v, want ErrNotFound", err)
	}

	if err := svc.Delete(context.Background(), 1, intent.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	mine, err := svc.ListMine(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 0 {
		t.Errorf("ListMine returned %d intents after delete, want 0", len(mine))
	}
}
