// Package booking holds the three-step reservation wizard: passenger
// details, seat selection, payment. The step guards are enforced here, not
// in the UI, so a direct call cannot skip a step.
package booking

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"marocbus/internal/backend"
	"marocbus/internal/domain"
	"marocbus/internal/utils"
)

type Step int

const (
	StepPassagers Step = iota + 1
	StepSieges
	StepPaiement
	StepSoumis
)

// SeatCount is the fixed 1..50 bus layout.
const SeatCount = 50

type Passager struct {
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Telephone string `json:"telephone"`
	Email     string `json:"email"`
}

func (p Passager) complete() bool {
	return utils.TrimOrEmpty(p.Nom) != "" &&
		utils.TrimOrEmpty(p.Prenom) != "" &&
		utils.TrimOrEmpty(p.Email) != "" &&
		utils.TrimOrEmpty(p.Telephone) != ""
}

type Paiement struct {
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	HolderName string `json:"holderName"`
}

func (p Paiement) complete() bool {
	return utils.TrimOrEmpty(p.CardNumber) != "" &&
		utils.TrimOrEmpty(p.Expiry) != "" &&
		utils.TrimOrEmpty(p.CVV) != "" &&
		utils.TrimOrEmpty(p.HolderName) != ""
}

type reservationCreator interface {
	CreateReservation(ctx context.Context, req backend.CreateReservationRequest) (backend.Reservation, error)
}

// Wizard is one booking session. All state is private and mutex guarded;
// handlers only go through the methods below.
type Wizard struct {
	ID             string
	ClientID       int64
	PassengerCount int
	Trip           backend.Trajet

	mu         sync.Mutex
	step       Step
	passagers  []Passager
	sieges     map[int]bool
	occupes    map[int]bool
	paiement   Paiement
	validated  [StepPaiement + 1]bool
	submitting bool
	submitted  bool
}

func newWizard(id string, clientID int64, passengerCount int, trip backend.Trajet, occupes map[int]bool) *Wizard {
	return &Wizard{
		ID:             id,
		ClientID:       clientID,
		PassengerCount: passengerCount,
		Trip:           trip,
		step:           StepPassagers,
		passagers:      make([]Passager, passengerCount),
		sieges:         make(map[int]bool),
		occupes:        occupes,
	}
}

// SimulatedOccupancy draws 10 to 29 pseudo-occupied seats. Placeholder for a
// real availability endpoint the backend does not expose yet.
func SimulatedOccupancy() map[int]bool {
	n := 10 + rand.Intn(20)
	out := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		out[1+rand.Intn(SeatCount)] = true
	}
	return out
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) Passagers() []Passager {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Passager, len(w.passagers))
	copy(out, w.passagers)
	return out
}

// SetPassager updates one passenger draft. Editing step 1 after progressing
// drops the cached validity of every later step, so the guards run again on
// the way forward.
func (w *Wizard) SetPassager(index int, p Passager) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitted {
		return domain.ConflictError{Resource: "réservation", Msg: "réservation déjà soumise"}
	}
	if index < 0 || index >= len(w.passagers) {
		return domain.ValidationError{Field: "passager", Msg: "index de passager invalide"}
	}
	w.passagers[index] = p
	w.invalidateFrom(StepPassagers)
	return nil
}

func (w *Wizard) SetPaiement(p Paiement) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitted {
		return domain.ConflictError{Resource: "réservation", Msg: "réservation déjà soumise"}
	}
	w.paiement = p
	w.invalidateFrom(StepPaiement)
	return nil
}

// ToggleSeat flips one seat of the 1..50 layout. Occupied seats never
// change the selection; additions beyond the passenger count are silently
// ignored.
func (w *Wizard) ToggleSeat(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitted || n < 1 || n > SeatCount {
		return
	}
	if w.occupes[n] {
		return
	}
	if w.sieges[n] {
		delete(w.sieges, n)
	} else if len(w.sieges) < w.PassengerCount {
		w.sieges[n] = true
	}
	w.invalidateFrom(StepSieges)
}

func (w *Wizard) Sieges() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return sortedSeats(w.sieges)
}

func (w *Wizard) SiegesOccupes() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return sortedSeats(w.occupes)
}

// IsStepValid reports whether the given step's guard currently holds.
func (w *Wizard) IsStepValid(step Step) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stepValidLocked(step)
}

func (w *Wizard) stepValidLocked(step Step) bool {
	switch step {
	case StepPassagers:
		for _, p := range w.passagers {
			if !p.complete() {
				return false
			}
		}
		return len(w.passagers) == w.PassengerCount
	case StepSieges:
		return len(w.sieges) == w.PassengerCount
	case StepPaiement:
		return w.paiement.complete()
	default:
		return false
	}
}

// Advance moves to the next step when the current guard holds; otherwise it
// is a no-op and reports the violation.
func (w *Wizard) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitted {
		return domain.ConflictError{Resource: "réservation", Msg: "réservation déjà soumise"}
	}
	if w.step >= StepPaiement {
		return domain.ValidationError{Field: "etape", Msg: "dernière étape: utiliser la soumission"}
	}
	if !w.validated[w.step] && !w.stepValidLocked(w.step) {
		return domain.ValidationError{Field: "etape", Msg: "étape incomplète"}
	}
	w.validated[w.step] = true
	w.step++
	return nil
}

// StepValidated reports whether a step's guard has passed with no edits
// since. Any mutation of a step clears it for that step and all later ones.
func (w *Wizard) StepValidated(step Step) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if step < StepPassagers || step > StepPaiement {
		return false
	}
	return w.validated[step]
}

// Retreat steps back without re-validating anything.
func (w *Wizard) Retreat() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitted {
		return
	}
	if w.step > StepPassagers {
		w.step--
	}
}

func (w *Wizard) invalidateFrom(step Step) {
	for s := step; s <= StepPaiement; s++ {
		w.validated[s] = false
	}
}

// Submit builds the minimal reservation request and issues exactly one
// create call. A second call while one is pending is rejected; after success
// the wizard is terminal. Every guard is re-checked here so a retreat-and-
// corrupt sequence cannot slip stale data through.
func (w *Wizard) Submit(ctx context.Context, api reservationCreator) (backend.Reservation, error) {
	w.mu.Lock()
	if w.submitted {
		w.mu.Unlock()
		return backend.Reservation{}, domain.ConflictError{Resource: "réservation", Msg: "réservation déjà soumise"}
	}
	if w.submitting {
		w.mu.Unlock()
		return backend.Reservation{}, domain.ConflictError{Resource: "réservation", Msg: "soumission déjà en cours"}
	}
	if w.step != StepPaiement {
		w.mu.Unlock()
		return backend.Reservation{}, domain.ValidationError{Field: "etape", Msg: "le paiement n'est pas atteint"}
	}
	for s := StepPassagers; s <= StepPaiement; s++ {
		if !w.stepValidLocked(s) {
			w.mu.Unlock()
			return backend.Reservation{}, domain.ValidationError{Field: "etape", Msg: "étape incomplète"}
		}
	}
	req := backend.CreateReservationRequest{
		TrajetID:       w.Trip.TrajetID,
		ClientID:       w.ClientID,
		NbrReservation: w.PassengerCount,
		Etat:           backend.EtatConfirmee,
	}
	w.submitting = true
	w.mu.Unlock()

	res, err := api.CreateReservation(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		// Stay on the payment step, the user may retry.
		return backend.Reservation{}, err
	}
	w.submitted = true
	w.step = StepSoumis
	return res, nil
}

func sortedSeats(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
