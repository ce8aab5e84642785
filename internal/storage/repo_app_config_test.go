package storage

import (
	"context"
	"testing"
	"time"
)

func TestAppConfigRepoUpsertOverwritesAndStamps(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewAppConfigRepo(db)
	ctx := context.Background()

	first := time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)
	repo.now = func() time.Time { return first }
	for key, value := range map[string]string{"a": "1", "b": "2"} {
		if err := repo.Upsert(ctx, key, value); err != nil {
			t.Fatalf("Upsert(%s) unexpected error: %v", key, err)
		}
	}

	second := first.Add(time.Hour)
	repo.now = func() time.Time { return second }
	if err := repo.Upsert(ctx, "a", "3"); err != nil {
		t.Fatalf("Upsert() unexpected error: %v", err)
	}

	if got, _, _ := repo.Get(ctx, "a"); got != "3" {
		t.Fatalf("Get(a) = %q, want %q", got, "3")
	}
	at, ok, err := repo.UpdatedAt(ctx, "a")
	if err != nil || !ok || !at.Equal(second) {
		t.Fatalf("UpdatedAt(a) = (%v, %v, %v), want %v", at, ok, err, second)
	}
	at, _, _ = repo.UpdatedAt(ctx, "b")
	if !at.Equal(first) {
		t.Fatalf("UpdatedAt(b) = %v, want %v", at, first)
	}
}

func TestAppConfigRepoGetMissing(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewAppConfigRepo(db)

	got, ok, err := repo.Get(context.Background(), "missing")
	if err != nil || ok || got != "" {
		t.Fatalf("Get() = (%q, %v, %v), want (\"\", false, nil)", got, ok, err)
	}
	if _, ok, err := repo.UpdatedAt(context.Background(), "missing"); err != nil || ok {
		t.Fatalf("UpdatedAt() = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestAppConfigRepoDelete(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewAppConfigRepo(db)
	ctx := context.Background()

	if err := repo.Upsert(ctx, "k", "v"); err != nil {
		t.Fatalf("Upsert() unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "k"); ok {
		t.Fatal("Get() found key after Delete()")
	}
}
