package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// User is the logged-in vendor contact.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Initials returns the two-letter badge shown next to the user: first and
// last name initials, else the email initial, else "U".
func (u *User) Initials() string {
	if u == nil {
		return "U"
	}
	if u.FirstName != "" && u.LastName != "" {
		return strings.ToUpper(firstRune(u.FirstName) + firstRune(u.LastName))
	}
	if u.Email != "" {
		return strings.ToUpper(firstRune(u.Email))
	}
	return "U"
}

// DisplayName is "First Last" when known, else the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Email
}

func firstRune(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

// SplitContactName splits a full contact name into first and last name on
// the first space.
func SplitContactName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	first, last, _ = strings.Cut(full, " ")
	return first, strings.TrimSpace(last)
}

// Store is the vendor's storefront (the tenant).
type Store struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
	Email       string `json:"email"`
	IsActive    bool   `json:"isActive"`
}

// StorePatch is a shallow partial update of a Store. Nil fields are kept.
type StorePatch struct {
	Name        *string
	Description *string
	LogoURL     *string
	Email       *string
	IsActive    *bool
}

// Apply returns s with the non-nil fields of p merged in.
func (p StorePatch) Apply(s Store) Store {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.LogoURL != nil {
		s.LogoURL = *p.LogoURL
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
	return s
}

// Session is who is logged in and as which store.
//
// IsAuthenticated holds exactly when Token is non-empty and both User and
// Store are present. IsLoading is transient and never persisted.
type Session struct {
	User            *User     `json:"user"`
	Store           *Store    `json:"store"`
	Token           string    `json:"token"`
	RefreshToken    string    `json:"refreshToken,omitempty"`
	ExpiresAt       time.Time `json:"expiresAt,omitzero"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	IsLoading       bool      `json:"-"`
}

// Valid reports whether the authentication invariant holds.
func (s Session) Valid() bool {
	complete := s.Token != "" && s.User != nil && s.Store != nil
	return s.IsAuthenticated == complete
}

// Expired reports whether the access token is past its exp at now. Sessions
// with unknown expiry never expire client-side.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Clone deep-copies the pointer fields so callers can't mutate shared state.
func (s Session) Clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	if s.Store != nil {
		st := *s.Store
		s.Store = &st
	}
	return s
}
