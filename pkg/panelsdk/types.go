package panelsdk

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Decimal is a decimal.Decimal that encodes as a bare JSON number, which is
// what the backend expects for weights and prices. Both numbers and numeric
// strings are accepted when decoding.
type Decimal struct {
	decimal.Decimal
}

// NewDecimal parses s, e.g. "2.35".
func NewDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	return Decimal{d}, err
}

// DecimalFromFloat converts f without rounding beyond float precision.
func DecimalFromFloat(f float64) Decimal {
	return Decimal{decimal.NewFromFloat(f)}
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

// ----------------------------------------------------------------------------
// Auth
// ----------------------------------------------------------------------------

// Vendor is the account returned by login and registration.
type Vendor struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	BusinessName      string `json:"businessName"`
	ContactPersonName string `json:"contactPersonName"`
	PhoneNumber       string `json:"phoneNumber,omitempty"`
	BusinessAddress   string `json:"businessAddress,omitempty"`
	BusinessType      string `json:"businessType,omitempty"`
	Status            string `json:"status,omitempty"`
}

// Tokens is the token pair issued at login and refresh. ExpiresIn is the
// backend's duration string, e.g. "15m".
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Vendor Vendor `json:"vendor"`
	Tokens Tokens `json:"tokens"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	BusinessName    string `json:"businessName"`
	BusinessType    string `json:"businessType"`
	ContactName     string `json:"contactName"`
	ContactPhone    string `json:"contactPhone"`
	BusinessAddress string `json:"businessAddress"`
	TaxID           string `json:"taxId,omitempty"`
	Description     string `json:"description,omitempty"`
	Website         string `json:"website,omitempty"`
}

type RegisterResponse struct {
	Vendor Vendor `json:"vendor"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	Tokens Tokens `json:"tokens"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ----------------------------------------------------------------------------
// Profile and dashboard
// ----------------------------------------------------------------------------

// StoreProfile is the vendor's storefront.
type StoreProfile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
	Email       string `json:"email"`
	IsActive    bool   `json:"isActive"`
}

// ProfileResponse is returned by GET /vendor/profile. Statistics is left
// raw; the dashboard endpoint is the typed source for counts.
type ProfileResponse struct {
	Store      StoreProfile    `json:"store"`
	Statistics json.RawMessage `json:"statistics,omitempty"`
}

// ProfileUpdate is a partial store update. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	LogoURL     *string `json:"logoUrl,omitempty"`
}

type ProfileUpdateResponse struct {
	Store StoreProfile `json:"store"`
}

type ProductCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Recent   int `json:"recent"`
}

type FavoriteCounts struct {
	Total int `json:"total"`
}

type DashboardStatistics struct {
	Products  ProductCounts  `json:"products"`
	Favorites FavoriteCounts `json:"favorites"`
}

type TopProduct struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	FavoriteCount int    `json:"favoriteCount"`
}

type Dashboard struct {
	Statistics  DashboardStatistics `json:"statistics"`
	TopProducts []TopProduct        `json:"topProducts"`
}

// ----------------------------------------------------------------------------
// Products
// ----------------------------------------------------------------------------

// Colors a product image can be offered in.
const (
	ColorYellow = "yellow"
	ColorWhite  = "white"
	ColorRose   = "rose"
)

// Colors lists the accepted product colours in display order.
var Colors = []string{ColorYellow, ColorWhite, ColorRose}

type Price struct {
	USD Decimal `json:"usd"`
	TRY Decimal `json:"try"`
}

type ProductImage struct {
	ID       string `json:"id"`
	Color    string `json:"color"`
	ImageURL string `json:"image_url"`
}

type Product struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Weight          Decimal        `json:"weight"`
	PopularityScore float64        `json:"popularity_score"`
	IsActive        bool           `json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	CalculatedPrice *Price         `json:"calculatedPrice,omitempty"`
	Images          []ProductImage `json:"product_images"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type ProductList struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

type ProductResponse struct {
	Product Product `json:"product"`
}

type CreateProductResponse struct {
	Product Product        `json:"product"`
	Images  []ProductImage `json:"images,omitempty"`
}

// ProductStatus filters the product list.
type ProductStatus string

const (
	StatusAll      ProductStatus = "all"
	StatusActive   ProductStatus = "active"
	StatusInactive ProductStatus = "inactive"
)

// Default product list paging.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ProductQuery selects a page of products.
type ProductQuery struct {
	Page   int
	Limit  int
	Search string
	Status ProductStatus
}

// Values encodes q as the list endpoint's query string.
func (q ProductQuery) Values() url.Values {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(limit))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	switch q.Status {
	case StatusActive:
		v.Set("isActive", "true")
	case StatusInactive:
		v.Set("isActive", "false")
	}
	return v
}

// ProductInput creates a product.
type ProductInput struct {
	Name            string   `json:"name"`
	Weight          Decimal  `json:"weight"`
	PopularityScore float64  `json:"popularityScore"`
	Colors          []string `json:"colors"`
	IsActive        *bool    `json:"isActive,omitempty"`
}

// ProductUpdate is a partial product update. Nil fields are left unchanged.
type ProductUpdate struct {
	Name            *string  `json:"name,omitempty"`
	Weight          *Decimal `json:"weight,omitempty"`
	PopularityScore *float64 `json:"popularityScore,omitempty"`
	Colors          []string `json:"colors,omitempty"`
	IsActive        *bool    `json:"isActive,omitempty"`
}
