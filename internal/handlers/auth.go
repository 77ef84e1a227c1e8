// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"sitecms/internal/middleware"
	"sitecms/internal/session"
	"sitecms/internal/store"
)

// totpIssuer labels the account in authenticator apps.
const totpIssuer = "sitecms"

// Auth groups the login, logout and two-factor endpoints. A bearer token
// is only issued once every factor the account has enrolled was checked.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{sessions: sessions, userStore: userStore}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code,omitempty"`
}

type operator struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	TOTPEnabled bool   `json:"totpEnabled"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      operator  `json:"user"`
}

// Login checks email, password and, when enrolled, the TOTP code, then
// issues a bearer token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.userStore.FindByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	if user.RequiresCode() {
		if req.Code == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Two-factor code required.", CodeRequired: true})
			return
		}
		if !totp.Validate(strings.TrimSpace(req.Code), *user.TOTPSecret) {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Invalid code. Please try again.", CodeRequired: true})
			return
		}
	}

	data := &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.CommitterName(),
		TwoFADone:   user.RequiresCode(),
	}
	token, err := a.sessions.Create(r.Context(), data)
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	slog.Info("operator logged in", "email", user.Email)
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: data.CreatedAt.Add(a.sessions.TTL()),
		User:      operator{Email: user.Email, DisplayName: data.DisplayName, TOTPEnabled: user.TOTPEnabled},
	})
}

// Logout destroys the session of the presented token.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), middleware.TokenFromCtx(r.Context())); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me returns the operator the token belongs to.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, operator{Email: user.Email, DisplayName: user.CommitterName(), TOTPEnabled: user.TOTPEnabled})
}

type totpSetupResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
	QRCode string `json:"qrCode"` // data: URL of a PNG
}

// TOTPSetup generates a new secret for the operator and returns it with a
// QR code. The factor is enforced only after TOTPVerify confirms a code.
func (a *Auth) TOTPSetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, totpSetupResponse{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

type totpVerifyRequest struct {
	Code string `json:"code"`
}

// TOTPVerify confirms a code for the pending secret and enables the factor.
func (a *Auth) TOTPVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req totpVerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, http.StatusBadRequest, "Set up two-factor authentication first.")
		return
	}
	if !totp.Validate(strings.TrimSpace(req.Code), *user.TOTPSecret) {
		writeError(w, http.StatusUnprocessableEntity, "Invalid code. Please try again.")
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), middleware.TokenFromCtx(r.Context()), sess); err != nil {
		slog.Warn("session update failed", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
