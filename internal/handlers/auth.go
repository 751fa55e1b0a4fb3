// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"inkwell/internal/apierr"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

const (
	minPasswordLen = 8
	totpIssuer     = "Inkwell"
)

// AuthHandlers serves registration, login, logout, the current-user
// endpoint, and optional TOTP two-factor enrollment.
type AuthHandlers struct {
	users    *store.UserStore
	sessions *session.Store
}

// NewAuthHandlers creates auth handlers with the given stores.
func NewAuthHandlers(users *store.UserStore, sessions *session.Store) *AuthHandlers {
	return &AuthHandlers{users: users, sessions: sessions}
}

// Register serves POST /api/auth/register. New accounts always get the
// author role; admins are created by the seed or by hand.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, apierr.Validation("invalid request body"))
		return
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		respondError(w, apierr.Validation("name is required"))
		return
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		respondError(w, apierr.Validation("a valid email is required"))
		return
	}
	if len(in.Password) < minPasswordLen {
		respondError(w, apierr.Validation("password must be at least %d characters", minPasswordLen))
		return
	}

	existing, err := h.users.FindByEmail(in.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	if existing != nil {
		respondError(w, apierr.Validation("email is already registered"))
		return
	}

	user, err := h.users.Create(in.Name, in.Email, in.Password, models.RoleAuthor)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.startSession(w, r, user)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, loginResponse{Token: token, User: user})
}

// Login serves POST /api/auth/login. Accounts with 2FA enabled must also
// send a valid TOTP code.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Code     string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, apierr.Validation("invalid request body"))
		return
	}

	user, err := h.users.FindByEmail(strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		respondError(w, err)
		return
	}
	// Same message for unknown email and wrong password.
	if user == nil || !h.users.CheckPassword(user, in.Password) {
		respondErrorMsg(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if user.TOTPEnabled {
		if user.TOTPSecret == nil || !totp.Validate(in.Code, *user.TOTPSecret) {
			respondErrorMsg(w, http.StatusUnauthorized, "invalid two-factor code")
			return
		}
	}

	token, err := h.startSession(w, r, user)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout serves POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, struct{}{})
}

// Me serves GET /api/auth/me: the caller's current account record.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := h.users.FindByID(sess.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil {
		respondError(w, apierr.NotFound("User"))
		return
	}
	respondData(w, http.StatusOK, user)
}

// TwoFASetup serves POST /api/auth/2fa/setup. Generates a fresh TOTP
// secret and returns it with a QR code; 2FA only activates after the
// first successful verify.
func (h *AuthHandlers) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := h.users.FindByID(sess.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil {
		respondError(w, apierr.NotFound("User"))
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.users.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		respondError(w, err)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{
		"secret": key.Secret(),
		"qrCode": "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

// TwoFAVerify serves POST /api/auth/2fa/verify: activates 2FA after the
// caller proves they hold the secret.
func (h *AuthHandlers) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var in struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, apierr.Validation("invalid request body"))
		return
	}

	user, err := h.users.FindByID(sess.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil {
		respondError(w, apierr.NotFound("User"))
		return
	}
	if user.TOTPSecret == nil {
		respondError(w, apierr.Validation("two-factor setup has not been started"))
		return
	}
	if !totp.Validate(in.Code, *user.TOTPSecret) {
		respondError(w, apierr.Validation("invalid two-factor code"))
		return
	}

	if err := h.users.EnableTOTP(user.ID); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]bool{"enabled": true})
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandlers) startSession(w http.ResponseWriter, r *http.Request, user *models.User) (string, error) {
	return h.sessions.Create(r.Context(), w, &session.Data{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   string(user.Role),
	})
}
