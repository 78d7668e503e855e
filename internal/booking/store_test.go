package booking

import (
	"context"
	"testing"
	"time"

	"marocbus/internal/backend"
	"marocbus/internal/domain"
)

type fakeWizardAPI struct {
	trip     backend.Trajet
	tripErr  error
	villes   map[int64]backend.Ville
	dispo    string
	dispoErr error
}

func (f fakeWizardAPI) GetTrajet(ctx context.Context, id int64) (backend.Trajet, error) {
	if f.tripErr != nil {
		return backend.Trajet{}, f.tripErr
	}
	return f.trip, nil
}

func (f fakeWizardAPI) GetVille(ctx context.Context, id int64) (backend.Ville, error) {
	if v, ok := f.villes[id]; ok {
		return v, nil
	}
	return backend.Ville{}, domain.NotFoundError{Resource: "ville"}
}

func (f fakeWizardAPI) CheckDisponibilite(ctx context.Context, trajetID int64, sieges int) (string, error) {
	if f.dispoErr != nil {
		return "", f.dispoErr
	}
	if f.dispo == "" {
		return "Disponible", nil
	}
	return f.dispo, nil
}

func newTestStore() *Store {
	api := fakeWizardAPI{
		trip: backend.Trajet{TrajetID: 3, VilleDepartID: 1, VilleArriveeID: 2, Prix: 150},
		villes: map[int64]backend.Ville{
			1: {VilleID: 1, Nom: "Casablanca"},
			2: {VilleID: 2, Nom: "Rabat"},
		},
	}
	s := NewStore(api, time.Minute)
	// Deterministic occupancy for tests.
	s.Occupancy = func() map[int]bool { return map[int]bool{5: true} }
	return s
}

func TestStoreCreateLoadsTripAndCities(t *testing.T) {
	s := newTestStore()

	w, err := s.Create(context.Background(), 42, 3, 2)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if w.ID == "" {
		t.Fatalf("wizard id missing")
	}
	if w.Trip.VilleDepartNom != "Casablanca" || w.Trip.VilleArriveeNom != "Rabat" {
		t.Fatalf("city names not resolved: %+v", w.Trip)
	}
	if got := w.SiegesOccupes(); len(got) != 1 || got[0] != 5 {
		t.Fatalf("unexpected occupancy: %v", got)
	}

	got, err := s.Get(w.ID, 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != w {
		t.Fatalf("Get returned a different wizard")
	}
}

func TestStoreCreateRejectsBadPassengerCount(t *testing.T) {
	s := newTestStore()
	if _, err := s.Create(context.Background(), 42, 3, 0); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for zero passengers, got %v", err)
	}
	if _, err := s.Create(context.Background(), 42, 3, SeatCount+1); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for too many passengers, got %v", err)
	}
}

func TestStoreGetScopedToOwner(t *testing.T) {
	s := newTestStore()
	w, err := s.Create(context.Background(), 42, 3, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Get(w.ID, 43); !domain.IsNotFound(err) {
		t.Fatalf("foreign client reached the wizard: %v", err)
	}
}

func TestStoreExpiry(t *testing.T) {
	s := newTestStore()
	s.TTL = 10 * time.Millisecond

	w, err := s.Create(context.Background(), 42, 3, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	time.Sleep(25 * time.Millisecond)
	if _, err := s.Get(w.ID, 42); !domain.IsNotFound(err) {
		t.Fatalf("expired wizard still reachable: %v", err)
	}
}

func TestStoreCreateBlockedWhenTripFull(t *testing.T) {
	s := newTestStore()
	s.API = fakeWizardAPI{
		trip:  backend.Trajet{TrajetID: 3, Capacite: 50, NbrPassagers: 50},
		dispo: "Le trajet est complet",
	}
	if _, err := s.Create(context.Background(), 42, 3, 2); !domain.IsConflict(err) {
		t.Fatalf("expected conflict for a full trip, got %v", err)
	}
}

func TestStoreCreateAvailabilityCheckIsAdvisory(t *testing.T) {
	s := newTestStore()
	s.API = fakeWizardAPI{
		trip:     backend.Trajet{TrajetID: 3, VilleDepartID: 1, VilleArriveeID: 2},
		dispoErr: domain.UnavailableError{Msg: "backend injoignable"},
	}
	w, err := s.Create(context.Background(), 42, 3, 1)
	if err != nil {
		t.Fatalf("unreachable availability endpoint must not block: %v", err)
	}
	if w.ID == "" {
		t.Fatalf("wizard not created")
	}
}

func TestStoreCreatePropagatesTripError(t *testing.T) {
	s := newTestStore()
	s.API = fakeWizardAPI{tripErr: domain.NotFoundError{Resource: "trajet"}}
	if _, err := s.Create(context.Background(), 42, 99, 1); !domain.IsNotFound(err) {
		t.Fatalf("expected trip not found, got %v", err)
	}
}
