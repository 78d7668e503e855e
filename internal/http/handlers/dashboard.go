package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"marocbus/internal/dashboard"
	"marocbus/internal/domain"
	"marocbus/internal/http/middleware"
	"marocbus/internal/ticket"
	"marocbus/internal/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	Service dashboard.Service
}

// GET /api/dashboard/reservations
func (h DashboardHandler) Reservations(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	items, err := h.Service.LoadReservations(c.Request.Context(), user.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": items})
}

// GET /api/dashboard/profile
func (h DashboardHandler) Profile(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	client, err := h.Service.Client(c.Request.Context(), user.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

// PUT /api/dashboard/profile
func (h DashboardHandler) UpdateProfile(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	var req dashboard.ProfileUpdate
	if !BindJSONOrError(c, &req) {
		return
	}
	client, err := h.Service.UpdateProfile(c.Request.Context(), user.UserID, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "dashboard", "profile_updated",
		fmt.Sprintf("client_id=%d", user.UserID))
	c.JSON(http.StatusOK, gin.H{"client": client})
}

// PUT /api/dashboard/reservations/:id/cancel
func (h DashboardHandler) CancelReservation(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "identifiant de réservation invalide", err)
		return
	}
	res, err := h.Service.CancelReservation(c.Request.Context(), user.UserID, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": res})
}

// GET /api/dashboard/reservations/:id/billet
// Streams the printable PDF ticket for one of the client's reservations.
func (h DashboardHandler) Billet(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "identifiant de réservation invalide", err)
		return
	}

	items, err := h.Service.LoadReservations(c.Request.Context(), user.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	var found *dashboard.EnrichedReservation
	for i := range items {
		if items[i].ReservationID == id {
			found = &items[i]
			break
		}
	}
	if found == nil {
		RespondDomainError(c, domain.NotFoundError{Resource: "réservation"})
		return
	}

	client, err := h.Service.Client(c.Request.Context(), user.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	pdf, filename, err := ticket.Generate(ticket.Ticket{
		ReservationID:   found.ReservationID,
		TrajetID:        found.TrajetID,
		ClientNom:       client.Nom,
		ClientPrenom:    client.Prenom,
		ClientEmail:     client.Email,
		ClientTelephone: client.NmrTelephon,
		Compagnie:       found.Compagnie,
		VilleDepart:     found.VilleDepart,
		VilleArrivee:    found.VilleArrivee,
		Date:            found.DateFormatted,
		HeureDepart:     found.HeureDepart,
		HeureArrivee:    found.HeureArrivee,
		NbrPassagers:    found.NbrReservation,
		Etat:            found.Etat,
		Prix:            found.Prix,
	})
	if err != nil {
		// No partial document: the failure is reported, nothing is served.
		RespondError(c, http.StatusInternalServerError, "génération du billet échouée", err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "dashboard", "billet",
		fmt.Sprintf("reservation_id=%d", id))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
