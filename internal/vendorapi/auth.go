package vendorapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bedirhantong/renart-vendor-panel/pkg/cryptox"
	"github.com/bedirhantong/renart-vendor-panel/pkg/httpx"
	"github.com/bedirhantong/renart-vendor-panel/pkg/jwtx"
	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
)

const vendorStatusActive = "active"

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	log := slogx.FromContext(req.Context())

	var body panelsdk.LoginRequest
	if !decodeValid(w, req, &body) {
		return
	}

	rec, err := r.data.vendorByEmail(body.Email)
	if err != nil {
		// Hash anyway so unknown emails take as long as wrong passwords.
		_, _ = r.hasher.Hash(body.Password)
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := r.hasher.Verify(body.Password, rec.PasswordHash); err != nil {
		log.Info("login rejected", "vendor_id", rec.Vendor.ID)
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if rec.Vendor.Status != vendorStatusActive {
		httpx.WriteError(w, http.StatusForbidden, "Vendor account is not active")
		return
	}

	tokens, err := r.issueTokens(rec.Vendor)
	if err != nil {
		log.Error("failed to issue tokens", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	log.Info("vendor logged in", "vendor_id", rec.Vendor.ID)
	httpx.WriteData(w, http.StatusOK, panelsdk.LoginResponse{Vendor: rec.Vendor, Tokens: tokens})
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	log := slogx.FromContext(req.Context())

	var body panelsdk.RegisterRequest
	if !decodeValid(w, req, &body) {
		return
	}

	hash, err := r.hasher.Hash(body.Password)
	if err != nil {
		log.Error("failed to hash password", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	vendor, err := r.data.createVendor(panelsdk.Vendor{
		Email:             body.Email,
		BusinessName:      body.BusinessName,
		ContactPersonName: body.ContactName,
		PhoneNumber:       body.ContactPhone,
		BusinessAddress:   body.BusinessAddress,
		BusinessType:      body.BusinessType,
		Status:            vendorStatusActive,
	}, hash, panelsdk.StoreProfile{
		Name:        body.BusinessName,
		Description: body.Description,
		IsActive:    true,
	})
	if errors.Is(err, errEmailTaken) {
		httpx.WriteError(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		log.Error("failed to create vendor", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	log.Info("vendor registered", "vendor_id", vendor.ID)
	httpx.WriteJSON(w, http.StatusCreated, httpx.Envelope{
		Success: true,
		Message: "Vendor registered successfully",
		Data:    panelsdk.RegisterResponse{Vendor: vendor},
	})
}

func (r *Router) handleRefresh(w http.ResponseWriter, req *http.Request) {
	log := slogx.FromContext(req.Context())

	var body panelsdk.RefreshRequest
	if !decodeValid(w, req, &body) {
		return
	}

	vendorID, err := r.data.consumeRefresh(cryptox.FingerprintToken(body.RefreshToken), r.now())
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	rec, err := r.data.vendorByID(vendorID)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	tokens, err := r.issueTokens(rec.Vendor)
	if err != nil {
		log.Error("failed to issue tokens", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Token refresh failed")
		return
	}
	httpx.WriteData(w, http.StatusOK, panelsdk.RefreshResponse{Tokens: tokens})
}

func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) {
	vendorID, _ := httpx.VendorIDFromContext(req.Context())
	n := r.data.revokeRefresh(vendorID)
	slogx.FromContext(req.Context()).Info("vendor logged out", "vendor_id", vendorID, "revoked", n)
	httpx.WriteMessage(w, http.StatusOK, "Logged out successfully")
}

func (r *Router) handleChangePassword(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	log := slogx.FromContext(ctx)
	vendorID, _ := httpx.VendorIDFromContext(ctx)

	var body panelsdk.ChangePasswordRequest
	if !decodeValid(w, req, &body) {
		return
	}

	rec, err := r.data.vendorByID(vendorID)
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "Vendor not found")
		return
	}
	if err := r.hasher.Verify(body.CurrentPassword, rec.PasswordHash); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hash, err := r.hasher.Hash(body.NewPassword)
	if err == nil {
		err = r.data.setPassword(vendorID, hash)
	}
	if err != nil {
		log.Error("failed to change password", "vendor_id", vendorID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Password change failed")
		return
	}

	r.data.revokeRefresh(vendorID)
	httpx.WriteMessage(w, http.StatusOK, "Password changed successfully")
}

func (r *Router) issueTokens(v panelsdk.Vendor) (panelsdk.Tokens, error) {
	now := r.now()

	access, err := r.tokens.Sign(jwtx.NewAccessClaims(v.ID, v.Email, r.cfg.Issuer, r.cfg.AccessTTL, now))
	if err != nil {
		return panelsdk.Tokens{}, err
	}
	refresh, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return panelsdk.Tokens{}, err
	}
	r.data.saveRefresh(cryptox.FingerprintToken(refresh), v.ID, now.Add(r.cfg.RefreshTTL))

	return panelsdk.Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    fmt.Sprintf("%dm", int(r.cfg.AccessTTL.Minutes())),
	}, nil
}

// decodeValid decodes and validates the request body, writing a 400 on
// failure.
func decodeValid(w http.ResponseWriter, req *http.Request, dst panelsdk.Validator) bool {
	if err := httpx.DecodeJSON(req, dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := panelsdk.Check(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
