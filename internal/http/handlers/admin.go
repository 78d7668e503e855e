package handlers

import (
	"net/http"
	"strconv"

	"marocbus/internal/backend"

	"github.com/gin-gonic/gin"
)

// AdminHandler proxies the trip and city management surface of the backend
// for the admin dashboard. The backend stays the source of truth.
type AdminHandler struct {
	API *backend.Client
}

// GET /api/admin/trajets
func (h AdminHandler) Trajets(c *gin.Context) {
	trajets, err := h.API.ListTrajets(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trajets": trajets})
}

// POST /api/admin/trajets
func (h AdminHandler) CreateTrajet(c *gin.Context) {
	var req backend.Trajet
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := h.API.CreateTrajet(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"trajet": out})
}

// PUT /api/admin/trajets/:id
func (h AdminHandler) UpdateTrajet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req backend.Trajet
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := h.API.UpdateTrajet(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trajet": out})
}

// DELETE /api/admin/trajets/:id
func (h AdminHandler) DeleteTrajet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.API.DeleteTrajet(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/admin/villes
func (h AdminHandler) CreateVille(c *gin.Context) {
	var req backend.Ville
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := h.API.CreateVille(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ville": out})
}

// PUT /api/admin/villes/:id
func (h AdminHandler) UpdateVille(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req backend.Ville
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := h.API.UpdateVille(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ville": out})
}

// DELETE /api/admin/villes/:id
func (h AdminHandler) DeleteVille(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.API.DeleteVille(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "identifiant invalide", err)
		return 0, false
	}
	return id, true
}
