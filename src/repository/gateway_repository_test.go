package repository

import (
	"context"
	"testing"

	"dcaexecutor/src/model"
)

func TestGatewayFindBySlug_NotFoundIsNilNil(t *testing.T) {
	db := newTestDB(t)
	repo := &GatewayRepository{db: db}

	gateway, err := repo.FindBySlug(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gateway != nil {
		t.Fatalf("expected nil gateway for missing slug")
	}
}

func TestGatewaySetAdminDisabled_FlipsOverrideOnly(t *testing.T) {
	db := newTestDB(t)
	repo := &GatewayRepository{db: db}

	seed := model.Gateway{Name: "Test Gateway", Slug: "testgw", FeePercentage: d("0.3"), IsActive: true}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := repo.SetAdminDisabled(context.Background(), seed.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := repo.FindBySlug(context.Background(), "testgw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stored.AdminDisabled {
		t.Fatalf("override not set")
	}
	if !stored.IsActive {
		t.Fatalf("SetAdminDisabled must not touch is_active")
	}

	if err := repo.SetAdminDisabled(context.Background(), seed.ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, err = repo.FindBySlug(context.Background(), "testgw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.AdminDisabled {
		t.Fatalf("override not cleared")
	}
}
