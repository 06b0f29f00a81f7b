package vendorapi

import (
	"fmt"
	"time"

	"github.com/bedirhantong/renart-vendor-panel/pkg/idx"
	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
)

// Demo account created by seed.
const (
	SeedEmail    = "vendor@renart.com"
	SeedPassword = "renart123"
)

type seedProduct struct {
	name       string
	weight     string
	popularity float64
	colors     []string
	active     bool
	favorites  int
	age        time.Duration
}

var seedCatalogue = []seedProduct{
	{"Engagement Ring 1", "2.1", 8.5, []string{panelsdk.ColorYellow, panelsdk.ColorWhite, panelsdk.ColorRose}, true, 42, 30 * 24 * time.Hour},
	{"Engagement Ring 2", "3.4", 9.0, []string{panelsdk.ColorYellow, panelsdk.ColorRose}, true, 37, 21 * 24 * time.Hour},
	{"Solitaire Pendant", "1.8", 7.2, []string{panelsdk.ColorWhite}, true, 18, 10 * 24 * time.Hour},
	{"Tennis Bracelet", "6.5", 6.4, []string{panelsdk.ColorYellow, panelsdk.ColorWhite}, false, 9, 3 * 24 * time.Hour},
	{"Hoop Earrings", "2.7", 5.1, []string{panelsdk.ColorRose}, true, 4, 24 * time.Hour},
}

func (r *Router) seed() error {
	hash, err := r.hasher.Hash(SeedPassword)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	v, err := r.data.createVendor(panelsdk.Vendor{
		Email:             SeedEmail,
		BusinessName:      "Renart Jewelry",
		ContactPersonName: "Ayşe Yılmaz",
		PhoneNumber:       "+90 212 555 0101",
		BusinessAddress:   "Kapalıçarşı, Istanbul",
		BusinessType:      "retail",
		Status:            vendorStatusActive,
	}, hash, panelsdk.StoreProfile{
		Name:        "Renart Jewelry",
		Description: "Handcrafted gold jewelry",
		IsActive:    true,
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	rec, err := r.data.vendorByID(v.ID)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	now := r.now().UTC()
	for _, sp := range seedCatalogue {
		weight, err := panelsdk.NewDecimal(sp.weight)
		if err != nil {
			return fmt.Errorf("seed %q: %w", sp.name, err)
		}
		p := panelsdk.Product{
			ID:              idx.New().String(),
			Name:            sp.name,
			Weight:          weight,
			PopularityScore: sp.popularity,
			IsActive:        sp.active,
			CreatedAt:       now.Add(-sp.age),
		}
		p.CalculatedPrice = price(p.Weight, p.PopularityScore)
		p.Images = productImages(p.ID, sp.colors)
		r.data.insertProduct(rec.StoreID, p, sp.favorites)
	}

	r.logger.Info("seeded demo vendor", "email", SeedEmail, "products", len(seedCatalogue))
	return nil
}
