// Package session issues and verifies the signed, expiring session token
// that replaces the old unsigned browser-storage record.
package session

import (
	"time"

	"marocbus/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the well-known session cookie.
const CookieName = "marocbus_session"

const (
	TypeClient = "client"
	TypeAdmin  = "admin"
)

// User is the authenticated identity carried by the session token.
type User struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue signs a session token for the user.
func (m *Manager) Issue(u User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   u.UserID,
		"email":     u.Email,
		"user_type": u.UserType,
		"iat":       now.Unix(),
		"exp":       now.Add(m.ttl).Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", domain.InternalError{Msg: "création du jeton de session échouée", Err: err}
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the embedded user.
func (m *Manager) Parse(tokenString string) (User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return User{}, domain.UnauthorizedError{Msg: "session invalide ou expirée", Err: err}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return User{}, domain.UnauthorizedError{Msg: "session invalide ou expirée"}
	}

	u := User{}
	if id, ok := claims["user_id"].(float64); ok {
		u.UserID = int64(id)
	}
	if email, ok := claims["email"].(string); ok {
		u.Email = email
	}
	if userType, ok := claims["user_type"].(string); ok {
		u.UserType = userType
	}
	if u.UserID == 0 || (u.UserType != TypeClient && u.UserType != TypeAdmin) {
		return User{}, domain.UnauthorizedError{Msg: "session invalide ou expirée"}
	}
	return u, nil
}
