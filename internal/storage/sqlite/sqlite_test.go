package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/parkfees/internal/models"
	"github.com/mmynk/parkfees/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustNeighbor(t *testing.T, store *SQLiteStore, first, last, address string) *models.Neighbor {
	t.Helper()

	n := &models.Neighbor{FirstName: first, LastName: last, Address: address}
	if err := store.CreateNeighbor(context.Background(), n); err != nil {
		t.Fatalf("CreateNeighbor failed: %v", err)
	}
	return n
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateNeighbor assigns increasing IDs", func(t *testing.T) {
		a := mustNeighbor(t, store, "Ana", "Zamora", "Calle 1")
		b := mustNeighbor(t, store, "Luis", "Arce", "Calle 2")

		if a.ID == 0 || b.ID == 0 {
			t.Fatal("Expected neighbor IDs to be generated")
		}
		if b.ID <= a.ID {
			t.Errorf("Expected increasing IDs, got %d then %d", a.ID, b.ID)
		}
	})

	t.Run("GetNeighbor returns ErrNotFound for nonexistent neighbor", func(t *testing.T) {
		_, err := store.GetNeighbor(ctx, 9999)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListNeighbors orders by last name", func(t *testing.T) {
		neighbors, err := store.ListNeighbors(ctx)
		if err != nil {
			t.Fatalf("ListNeighbors failed: %v", err)
		}
		for i := 1; i < len(neighbors); i++ {
			if neighbors[i-1].LastName > neighbors[i].LastName {
				t.Errorf("Neighbors out of order: %s before %s", neighbors[i-1].LastName, neighbors[i].LastName)
			}
		}
	})
}

func TestNeighborIDsAreNotReused(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := mustNeighbor(t, store, "Ana", "Ruiz", "Calle 1")
	if _, err := store.DeleteNeighbor(ctx, first.ID); err != nil {
		t.Fatalf("DeleteNeighbor failed: %v", err)
	}

	second := mustNeighbor(t, store, "Ana", "Ruiz", "Calle 1")
	if second.ID == first.ID {
		t.Errorf("Expected a fresh ID after delete, got %d again", second.ID)
	}
}

func TestSearchNeighbors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustNeighbor(t, store, "John", "Smith", "Oak Street 12")
	mustNeighbor(t, store, "Maria", "Lopez", "Pine Avenue 3")
	mustNeighbor(t, store, "Pedro", "Blacksmith", "Elm 100%")
	mustNeighbor(t, store, "Ángela", "Núñez", "Calle Ñandú 5")

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"last name any case", "SMITH", []string{"Blacksmith", "Smith"}},
		{"first name", "mar", []string{"Lopez"}},
		{"address", "avenue", []string{"Lopez"}},
		{"percent is literal", "%", []string{"Blacksmith"}},
		{"underscore is literal", "_", nil},
		{"no match", "xyz", nil},
		{"accented first name lower case", "ángela", []string{"Núñez"}},
		{"accented last name upper case", "NÚÑEZ", []string{"Núñez"}},
		{"accents ignored", "nunez", []string{"Núñez"}},
		{"accented address", "ñandu", []string{"Núñez"}},
		{"does not span fields", "john smith", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.SearchNeighbors(ctx, tt.query)
			if err != nil {
				t.Fatalf("SearchNeighbors failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d results, got %d", len(tt.want), len(got))
			}
			for i, n := range got {
				if n.LastName != tt.want[i] {
					t.Errorf("Result %d: got %s, want %s", i, n.LastName, tt.want[i])
				}
			}
		})
	}
}

func TestDeleteNeighborCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := mustNeighbor(t, store, "Ana", "Ruiz", "Calle 1")
	other := mustNeighbor(t, store, "Luis", "Vega", "Calle 2")

	for _, n := range []*models.Neighbor{owner, other} {
		if err := store.CreateVehicle(ctx, &models.Vehicle{
			NeighborID: n.ID, LicensePlate: "ABC-123", Make: "Nissan", Model: "Versa", ControlNumber: "7",
		}); err != nil {
			t.Fatalf("CreateVehicle failed: %v", err)
		}
		if err := store.CreatePayment(ctx, &models.Payment{
			NeighborID: n.ID, Method: "efectivo", Amount: 100, ScreenshotPath: "evidence.png",
		}); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}
	}

	removed, err := store.DeleteNeighbor(ctx, owner.ID)
	if err != nil {
		t.Fatalf("DeleteNeighbor failed: %v", err)
	}
	if len(removed) != 1 || removed[0].ScreenshotPath != "evidence.png" {
		t.Errorf("Expected the removed payment to be returned, got %+v", removed)
	}

	vehicles, err := store.ListVehicles(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListVehicles failed: %v", err)
	}
	if len(vehicles) != 0 {
		t.Errorf("Expected no vehicles after cascade, got %d", len(vehicles))
	}

	payments, err := store.ListPayments(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 0 {
		t.Errorf("Expected no payments after cascade, got %d", len(payments))
	}

	if _, err := store.DeleteNeighbor(ctx, owner.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}

	// The other neighbor is untouched.
	vehicles, _ = store.ListVehicles(ctx, other.ID)
	payments, _ = store.ListPayments(ctx, other.ID)
	if len(vehicles) != 1 || len(payments) != 1 {
		t.Errorf("Expected other neighbor's records intact, got %d vehicles, %d payments", len(vehicles), len(payments))
	}
}

func TestVehicles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := mustNeighbor(t, store, "Ana", "Ruiz", "Calle 1")
	b := mustNeighbor(t, store, "Luis", "Vega", "Calle 2")

	t.Run("CreateVehicle requires an existing neighbor", func(t *testing.T) {
		err := store.CreateVehicle(ctx, &models.Vehicle{
			NeighborID: 9999, LicensePlate: "X", Make: "X", Model: "X", ControlNumber: "X",
		})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	va := &models.Vehicle{NeighborID: a.ID, LicensePlate: "AAA-111", Make: "Ford", Model: "Fiesta", ControlNumber: "1"}
	vb := &models.Vehicle{NeighborID: b.ID, LicensePlate: "BBB-222", Make: "Kia", Model: "Rio", ControlNumber: "2"}
	for _, v := range []*models.Vehicle{va, vb} {
		if err := store.CreateVehicle(ctx, v); err != nil {
			t.Fatalf("CreateVehicle failed: %v", err)
		}
	}

	t.Run("DeleteVehicle is scoped to the owner", func(t *testing.T) {
		err := store.DeleteVehicle(ctx, a.ID, vb.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound for mismatched owner, got %v", err)
		}

		for _, n := range []*models.Neighbor{a, b} {
			vehicles, err := store.ListVehicles(ctx, n.ID)
			if err != nil {
				t.Fatalf("ListVehicles failed: %v", err)
			}
			if len(vehicles) != 1 {
				t.Errorf("Expected 1 vehicle for neighbor %d, got %d", n.ID, len(vehicles))
			}
		}
	})

	t.Run("DeleteVehicle removes the owned vehicle", func(t *testing.T) {
		if err := store.DeleteVehicle(ctx, b.ID, vb.ID); err != nil {
			t.Fatalf("DeleteVehicle failed: %v", err)
		}
		vehicles, _ := store.ListVehicles(ctx, b.ID)
		if len(vehicles) != 0 {
			t.Errorf("Expected 0 vehicles, got %d", len(vehicles))
		}
	})
}

func TestPayments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n := mustNeighbor(t, store, "Ana", "Ruiz", "Calle 1")

	t.Run("CreatePayment stores optional fields as given", func(t *testing.T) {
		p := &models.Payment{NeighborID: n.ID, Method: "cash", Amount: 12.5}
		if err := store.CreatePayment(ctx, p); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}
		if p.ID == 0 {
			t.Error("Expected payment ID to be generated")
		}
		if p.CreatedAt.IsZero() || p.CreatedAt.Location() != time.UTC {
			t.Errorf("Expected UTC CreatedAt, got %v", p.CreatedAt)
		}

		payments, err := store.ListPayments(ctx, n.ID)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(payments) != 1 {
			t.Fatalf("Expected 1 payment, got %d", len(payments))
		}
		got := payments[0]
		if got.Amount != 12.5 || got.Method != "cash" {
			t.Errorf("Unexpected payment: %+v", got)
		}
		if got.DepositAccount != "" || got.ScreenshotPath != "" {
			t.Errorf("Expected empty optional fields, got %+v", got)
		}
	})

	t.Run("CreatePayment requires an existing neighbor", func(t *testing.T) {
		err := store.CreatePayment(ctx, &models.Payment{NeighborID: 9999, Method: "cash"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeletePayment is scoped to the owner", func(t *testing.T) {
		other := mustNeighbor(t, store, "Luis", "Vega", "Calle 2")
		p := &models.Payment{NeighborID: n.ID, Method: "cash", Amount: 1, ScreenshotPath: "x.pdf"}
		if err := store.CreatePayment(ctx, p); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}

		if _, err := store.DeletePayment(ctx, other.ID, p.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound for mismatched owner, got %v", err)
		}

		removed, err := store.DeletePayment(ctx, n.ID, p.ID)
		if err != nil {
			t.Fatalf("DeletePayment failed: %v", err)
		}
		if removed.ScreenshotPath != "x.pdf" {
			t.Errorf("Expected removed payment to carry its screenshot, got %q", removed.ScreenshotPath)
		}
	})
}

func TestPaymentOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n := mustNeighbor(t, store, "Ana", "Ruiz", "Calle 1")

	// A clock that stalls and then goes backwards.
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base, base.Add(-time.Hour), base.Add(time.Second)}
	i := 0
	store.now = func() time.Time {
		tick := ticks[i]
		i++
		return tick
	}

	var ids []int64
	for range ticks {
		p := &models.Payment{NeighborID: n.ID, Method: "cash", Amount: 1}
		if err := store.CreatePayment(ctx, p); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}
		ids = append(ids, p.ID)
	}

	payments, err := store.ListPayments(ctx, n.ID)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != len(ids) {
		t.Fatalf("Expected %d payments, got %d", len(ids), len(payments))
	}

	// Newest first, ties broken by insertion order.
	for j, p := range payments {
		want := ids[len(ids)-1-j]
		if p.ID != want {
			t.Errorf("Position %d: got payment %d, want %d", j, p.ID, want)
		}
	}

	// The backwards tick was clamped to the latest existing timestamp.
	if !payments[1].CreatedAt.Equal(base) {
		t.Errorf("Expected clamped CreatedAt %v, got %v", base, payments[1].CreatedAt)
	}
}

func TestMigrationsBackfillSearchKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE neighbors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			address TEXT NOT NULL
		)`,
		`INSERT INTO neighbors (first_name, last_name, address) VALUES ('Ángela', 'Núñez', 'Calle 1')`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to prepare old schema: %v", err)
		}
	}
	db.Close()

	store, err := New(path)
	if err != nil {
		t.Fatalf("Failed to open store over old schema: %v", err)
	}
	defer store.Close()

	got, err := store.SearchNeighbors(context.Background(), "NUNEZ")
	if err != nil {
		t.Fatalf("SearchNeighbors failed: %v", err)
	}
	if len(got) != 1 || got[0].FirstName != "Ángela" {
		t.Errorf("Expected the migrated neighbor, got %+v", got)
	}
}
