package panelsdk

import (
	"math"
	"net/mail"
	"net/url"
	"slices"
	"strings"
)

// MinPasswordLength matches the backend's password rule.
const MinPasswordLength = 6

func (r LoginRequest) Validate() map[string]string {
	errs := map[string]string{}
	checkEmail(errs, "email", r.Email)
	if len(r.Password) < MinPasswordLength {
		errs["password"] = "Password must be at least 6 characters"
	}
	return errs
}

func (r RegisterRequest) Validate() map[string]string {
	errs := map[string]string{}
	checkEmail(errs, "email", r.Email)
	if len(r.Password) < MinPasswordLength {
		errs["password"] = "Password must be at least 6 characters"
	}
	required(errs, "businessName", r.BusinessName, "Business name is required")
	required(errs, "businessType", r.BusinessType, "Business type is required")
	required(errs, "contactName", r.ContactName, "Contact name is required")
	required(errs, "contactPhone", r.ContactPhone, "Contact phone is required")
	required(errs, "businessAddress", r.BusinessAddress, "Business address is required")
	if r.Website != "" && !validURL(r.Website) {
		errs["website"] = "Please enter a valid URL"
	}
	return errs
}

func (r RefreshRequest) Validate() map[string]string {
	errs := map[string]string{}
	required(errs, "refreshToken", r.RefreshToken, "Refresh token is required")
	return errs
}

func (r ChangePasswordRequest) Validate() map[string]string {
	errs := map[string]string{}
	required(errs, "currentPassword", r.CurrentPassword, "Current password is required")
	switch {
	case len(r.NewPassword) < MinPasswordLength:
		errs["newPassword"] = "Password must be at least 6 characters"
	case r.NewPassword == r.CurrentPassword:
		errs["newPassword"] = "New password must differ from the current one"
	}
	return errs
}

func (u ProfileUpdate) Validate() map[string]string {
	errs := map[string]string{}
	if u.Name != nil {
		required(errs, "name", *u.Name, "Store name is required")
	}
	if u.LogoURL != nil && *u.LogoURL != "" && !validURL(*u.LogoURL) {
		errs["logoUrl"] = "Please enter a valid URL"
	}
	return errs
}

func (p ProductInput) Validate() map[string]string {
	errs := map[string]string{}
	required(errs, "name", p.Name, "Product name is required")
	checkWeight(errs, p.Weight)
	checkPopularity(errs, p.PopularityScore)
	checkColors(errs, p.Colors)
	return errs
}

func (p ProductUpdate) Validate() map[string]string {
	errs := map[string]string{}
	if p.Name != nil {
		required(errs, "name", *p.Name, "Product name is required")
	}
	if p.Weight != nil {
		checkWeight(errs, *p.Weight)
	}
	if p.PopularityScore != nil {
		checkPopularity(errs, *p.PopularityScore)
	}
	if p.Colors != nil {
		checkColors(errs, p.Colors)
	}
	return errs
}

func (q ProductQuery) Validate() map[string]string {
	errs := map[string]string{}
	switch q.Status {
	case "", StatusAll, StatusActive, StatusInactive:
	default:
		errs["status"] = "Status must be all, active or inactive"
	}
	if q.Page < 0 {
		errs["page"] = "Page must be positive"
	}
	if q.Limit < 0 || q.Limit > 100 {
		errs["limit"] = "Limit must be between 1 and 100"
	}
	return errs
}

func required(errs map[string]string, field, value, msg string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = msg
	}
}

func checkEmail(errs map[string]string, field, value string) {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		errs[field] = "Please enter a valid email address"
	}
}

func checkWeight(errs map[string]string, w Decimal) {
	if !w.IsPositive() {
		errs["weight"] = "Weight must be positive"
	}
}

func checkPopularity(errs map[string]string, score float64) {
	if math.IsNaN(score) || score < 0 || score > 10 {
		errs["popularityScore"] = "Popularity score must be between 0 and 10"
	}
}

func checkColors(errs map[string]string, colors []string) {
	if len(colors) == 0 {
		errs["colors"] = "At least one color must be selected"
		return
	}
	seen := make(map[string]bool, len(colors))
	for _, c := range colors {
		if !slices.Contains(Colors, c) {
			errs["colors"] = "Unknown color " + c
			return
		}
		if seen[c] {
			errs["colors"] = "Duplicate color " + c
			return
		}
		seen[c] = true
	}
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
