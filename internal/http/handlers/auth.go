package handlers

import (
	"net/http"

	"marocbus/internal/backend"
	"marocbus/internal/http/middleware"
	"marocbus/internal/session"
	"marocbus/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	API      *backend.Client
	Sessions *session.Manager
	// CookieSecure marks the session cookie HTTPS-only.
	CookieSecure bool
}

type loginRequest struct {
	Email     string `json:"email"`
	MotDePass string `json:"motDePass"`
	UserType  string `json:"userType"`
}

// POST /api/auth/login
// The selected role picks exactly one backend call; any denial maps to the
// same generic message.
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.UserType == "" {
		req.UserType = session.TypeClient
	}

	creds := backend.Credentials{Email: req.Email, MotDePass: req.MotDePass}
	var user session.User

	switch req.UserType {
	case session.TypeAdmin:
		admin, err := h.API.AuthenticateAdmin(c.Request.Context(), creds)
		if err != nil {
			denyLogin(c)
			return
		}
		user = session.User{UserID: admin.AdminID, Email: admin.Email, UserType: session.TypeAdmin}
	case session.TypeClient:
		result, err := h.API.AuthenticateClient(c.Request.Context(), creds)
		if err != nil || !result.Authenticated || result.ClientID == 0 {
			denyLogin(c)
			return
		}
		user = session.User{UserID: result.ClientID, Email: req.Email, UserType: session.TypeClient}
	default:
		RespondError(c, http.StatusBadRequest, "type d'utilisateur inconnu", nil)
		return
	}

	if !h.writeSession(c, user) {
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "login", "type="+user.UserType)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type registerRequest struct {
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	Email       string `json:"email"`
	NmrTelephon string `json:"nmrTelephon"`
	MotDePass   string `json:"motDePass"`
}

// POST /api/auth/register
func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Nom == "" || req.Prenom == "" || req.Email == "" || req.MotDePass == "" {
		RespondError(c, http.StatusBadRequest, "tous les champs sont obligatoires", nil)
		return
	}

	account, err := h.API.RegisterClient(c.Request.Context(), backend.ClientRequest{
		Nom:         req.Nom,
		Prenom:      req.Prenom,
		Email:       req.Email,
		NmrTelephon: req.NmrTelephon,
		MotDePass:   req.MotDePass,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	user := session.User{UserID: account.ClientID, Email: account.Email, UserType: session.TypeClient}
	if !h.writeSession(c, user) {
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "register", "client inscrit")
	c.JSON(http.StatusCreated, gin.H{"user": user, "client": account})
}

// POST /api/auth/logout
func (h AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", h.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "déconnecté"})
}

// GET /api/auth/me
func (h AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "connexion requise", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h AuthHandler) writeSession(c *gin.Context, user session.User) bool {
	token, err := h.Sessions.Issue(user)
	if err != nil {
		RespondDomainError(c, err)
		return false
	}
	maxAge := int(h.Sessions.TTL().Seconds())
	c.SetCookie(session.CookieName, token, maxAge, "/", "", h.CookieSecure, true)
	return true
}

func denyLogin(c *gin.Context) {
	// Never distinguish unknown user from wrong password.
	RespondError(c, http.StatusUnauthorized, "email ou mot de passe incorrect", nil)
}
