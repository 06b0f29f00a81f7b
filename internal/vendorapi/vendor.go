package vendorapi

import (
	"net/http"
	"slices"
	"time"

	"github.com/bedirhantong/renart-vendor-panel/pkg/httpx"
	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
)

// recentWindow is how new a product must be to count as recent.
const recentWindow = 7 * 24 * time.Hour

const topProductsLimit = 5

// storeFor resolves the authenticated vendor's store, writing a 404 when
// it is gone.
func (r *Router) storeFor(w http.ResponseWriter, req *http.Request) (panelsdk.StoreProfile, bool) {
	vendorID, _ := httpx.VendorIDFromContext(req.Context())
	rec, err := r.data.vendorByID(vendorID)
	if err == nil {
		var st panelsdk.StoreProfile
		if st, err = r.data.store(rec.StoreID); err == nil {
			return st, true
		}
	}
	httpx.WriteError(w, http.StatusNotFound, "Store not found")
	return panelsdk.StoreProfile{}, false
}

func (r *Router) handleGetProfile(w http.ResponseWriter, req *http.Request) {
	st, ok := r.storeFor(w, req)
	if !ok {
		return
	}
	stats := r.statistics(st.ID)
	httpx.WriteData(w, http.StatusOK, struct {
		Store      panelsdk.StoreProfile        `json:"store"`
		Statistics panelsdk.DashboardStatistics `json:"statistics"`
	}{st, stats})
}

func (r *Router) handleUpdateProfile(w http.ResponseWriter, req *http.Request) {
	st, ok := r.storeFor(w, req)
	if !ok {
		return
	}

	var body panelsdk.ProfileUpdate
	if !decodeValid(w, req, &body) {
		return
	}

	updated, err := r.data.updateStore(st.ID, body)
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "Store not found")
		return
	}

	slogx.FromContext(req.Context()).Info("store profile updated", "store_id", st.ID)
	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{
		Success: true,
		Message: "Profile updated successfully",
		Data:    panelsdk.ProfileUpdateResponse{Store: updated},
	})
}

func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) {
	st, ok := r.storeFor(w, req)
	if !ok {
		return
	}

	products := r.data.storeProducts(st.ID)
	slices.SortStableFunc(products, func(a, b productRecord) int {
		return b.Favorites - a.Favorites
	})

	top := make([]panelsdk.TopProduct, 0, topProductsLimit)
	for _, p := range products[:min(len(products), topProductsLimit)] {
		top = append(top, panelsdk.TopProduct{
			ID:            p.Product.ID,
			Name:          p.Product.Name,
			FavoriteCount: p.Favorites,
		})
	}

	httpx.WriteData(w, http.StatusOK, panelsdk.Dashboard{
		Statistics:  r.statistics(st.ID),
		TopProducts: top,
	})
}

func (r *Router) statistics(storeID string) panelsdk.DashboardStatistics {
	var stats panelsdk.DashboardStatistics
	cutoff := r.now().Add(-recentWindow)

	for _, p := range r.data.storeProducts(storeID) {
		stats.Products.Total++
		if p.Product.IsActive {
			stats.Products.Active++
		} else {
			stats.Products.Inactive++
		}
		if p.Product.CreatedAt.After(cutoff) {
			stats.Products.Recent++
		}
		stats.Favorites.Total += p.Favorites
	}
	return stats
}
