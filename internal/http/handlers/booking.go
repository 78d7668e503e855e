package handlers

import (
	"fmt"
	"net/http"

	"marocbus/internal/backend"
	"marocbus/internal/booking"
	"marocbus/internal/http/middleware"
	"marocbus/internal/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	Store *booking.Store
	API   *backend.Client
}

type createWizardRequest struct {
	TrajetID     int64 `json:"trajetId"`
	NbrPassagers int   `json:"nbrPassagers"`
}

// POST /api/bookings/wizard
func (h BookingHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req createWizardRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	w, err := h.Store.Create(c.Request.Context(), user.UserID, req.TrajetID, req.NbrPassagers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wizardView(w))
}

// GET /api/bookings/wizard/:id
func (h BookingHandler) Get(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, wizardView(w))
}

type passengersRequest struct {
	Passagers []booking.Passager `json:"passagers"`
}

// PUT /api/bookings/wizard/:id/passagers
func (h BookingHandler) SetPassagers(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	var req passengersRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	for i, p := range req.Passagers {
		if err := w.SetPassager(i, p); err != nil {
			RespondDomainError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, wizardView(w))
}

type seatRequest struct {
	Siege int `json:"siege"`
}

// POST /api/bookings/wizard/:id/sieges/toggle
func (h BookingHandler) ToggleSeat(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	var req seatRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	w.ToggleSeat(req.Siege)
	c.JSON(http.StatusOK, wizardView(w))
}

// PUT /api/bookings/wizard/:id/paiement
func (h BookingHandler) SetPaiement(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	var req booking.Paiement
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := w.SetPaiement(req); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, wizardView(w))
}

// POST /api/bookings/wizard/:id/advance
func (h BookingHandler) Advance(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	if err := w.Advance(); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, wizardView(w))
}

// POST /api/bookings/wizard/:id/retreat
func (h BookingHandler) Retreat(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	w.Retreat()
	c.JSON(http.StatusOK, wizardView(w))
}

// POST /api/bookings/wizard/:id/submit
func (h BookingHandler) Submit(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}

	res, err := w.Submit(c.Request.Context(), h.API)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	h.Store.Delete(w.ID)
	utils.LogEvent(middleware.GetRequestID(c), "booking", "submitted",
		fmt.Sprintf("reservation_id=%d trajet_id=%d", res.ReservationID, res.TrajetID))
	c.JSON(http.StatusCreated, gin.H{
		"reservation": res,
		"redirect":    "/dashboard?booking=success",
	})
}

func (h BookingHandler) wizard(c *gin.Context) (*booking.Wizard, bool) {
	user, _ := middleware.CurrentUser(c)
	w, err := h.Store.Get(c.Param("id"), user.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return nil, false
	}
	return w, true
}

func wizardView(w *booking.Wizard) gin.H {
	return gin.H{
		"id":            w.ID,
		"etape":         w.Step(),
		"trajet":        w.Trip,
		"nbrPassagers":  w.PassengerCount,
		"passagers":     w.Passagers(),
		"sieges":        w.Sieges(),
		"siegesOccupes": w.SiegesOccupes(),
		"etapesValidees": gin.H{
			"passagers": w.StepValidated(booking.StepPassagers),
			"sieges":    w.StepValidated(booking.StepSieges),
			"paiement":  w.StepValidated(booking.StepPaiement),
		},
	}
}
