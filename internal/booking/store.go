package booking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"marocbus/internal/backend"
	"marocbus/internal/domain"
	"marocbus/internal/utils"

	"github.com/google/uuid"
)

type wizardAPI interface {
	GetTrajet(ctx context.Context, id int64) (backend.Trajet, error)
	GetVille(ctx context.Context, id int64) (backend.Ville, error)
	CheckDisponibilite(ctx context.Context, trajetID int64, sieges int) (string, error)
}

// Store keeps wizard sessions in memory with a TTL. Abandoned wizards are
// swept lazily on access.
type Store struct {
	API       wizardAPI
	TTL       time.Duration
	Occupancy func() map[int]bool

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	wizard  *Wizard
	expires time.Time
}

func NewStore(api wizardAPI, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		API:       api,
		TTL:       ttl,
		Occupancy: SimulatedOccupancy,
		entries:   map[string]*entry{},
	}
}

// Create loads the trip and both city names, draws the occupied seats, and
// opens a new wizard session for the client.
func (s *Store) Create(ctx context.Context, clientID, trajetID int64, passengerCount int) (*Wizard, error) {
	if passengerCount < 1 {
		return nil, domain.ValidationError{Field: "nbrPassagers", Msg: "au moins un passager requis"}
	}
	if passengerCount > SeatCount {
		return nil, domain.ValidationError{Field: "nbrPassagers", Msg: "trop de passagers pour un autocar"}
	}

	trip, err := s.API.GetTrajet(ctx, trajetID)
	if err != nil {
		return nil, err
	}

	// Availability is checked before the wizard opens. The check is advisory
	// on backend failure: an unreachable endpoint never blocks a booking.
	if verdict, err := s.API.CheckDisponibilite(ctx, trajetID, passengerCount); err != nil {
		utils.LogEvent("", "booking", "disponibilite_skipped",
			fmt.Sprintf("trajet_id=%d err=%v", trajetID, err))
	} else if !strings.EqualFold(strings.TrimSpace(verdict), "Disponible") {
		msg := strings.TrimSpace(verdict)
		if msg == "" {
			msg = "plus assez de places disponibles"
		}
		return nil, domain.ConflictError{Resource: "trajet", Msg: msg}
	}

	if depart, err := s.API.GetVille(ctx, trip.VilleDepartID); err == nil {
		trip.VilleDepartNom = depart.Nom
	}
	if arrivee, err := s.API.GetVille(ctx, trip.VilleArriveeID); err == nil {
		trip.VilleArriveeNom = arrivee.Nom
	}

	w := newWizard(uuid.NewString(), clientID, passengerCount, trip, s.Occupancy())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.entries[w.ID] = &entry{wizard: w, expires: time.Now().Add(s.TTL)}

	utils.LogEvent("", "booking", "wizard_created",
		fmt.Sprintf("wizard_id=%s trajet_id=%d passagers=%d", w.ID, trajetID, passengerCount))
	return w, nil
}

// Get returns the wizard for id, refreshing its TTL. The id is scoped to the
// owning client.
func (s *Store) Get(id string, clientID int64) (*Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	e, ok := s.entries[id]
	if !ok || e.wizard.ClientID != clientID {
		return nil, domain.NotFoundError{Resource: "session de réservation"}
	}
	e.expires = time.Now().Add(s.TTL)
	return e.wizard, nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

func (s *Store) sweepLocked() {
	now := time.Now()
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
		}
	}
}
