package vendorapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bedirhantong/renart-vendor-panel/pkg/httpx"
	"github.com/bedirhantong/renart-vendor-panel/pkg/idx"
	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
	"github.com/shopspring/decimal"
)

const maxPageLimit = 100

// Pricing inputs. Price is (popularity/10 + 1) * weight * gold price.
var (
	goldPricePerGramUSD = decimal.RequireFromString("75.40")
	usdToTRY            = decimal.RequireFromString("34.25")
)

func price(weight panelsdk.Decimal, popularity float64) *panelsdk.Price {
	factor := decimal.NewFromFloat(popularity).Div(decimal.NewFromInt(10)).Add(decimal.NewFromInt(1))
	usd := factor.Mul(weight.Decimal).Mul(goldPricePerGramUSD).Round(2)
	return &panelsdk.Price{
		USD: panelsdk.Decimal{Decimal: usd},
		TRY: panelsdk.Decimal{Decimal: usd.Mul(usdToTRY).Round(2)},
	}
}

func productImages(productID string, colors []string) []panelsdk.ProductImage {
	images := make([]panelsdk.ProductImage, 0, len(colors))
	for _, c := range colors {
		images = append(images, panelsdk.ProductImage{
			ID:       idx.New().String(),
			Color:    c,
			ImageURL: fmt.Sprintf("https://cdn.renart.com/products/%s/%s.jpg", productID, c),
		})
	}
	return images
}

// queryInt parses a positive integer parameter, falling back to def.
func queryInt(req *http.Request, key string, def int) int {
	n, err := strconv.Atoi(req.URL.Query().Get(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func (r *Router) handleListProducts(w http.ResponseWriter, req *http.Request) {
	st, ok := r.storeFor(w, req)
	if !ok {
		return
	}

	q := req.URL.Query()
	page := queryInt(req, "page", panelsdk.DefaultPage)
	limit := min(queryInt(req, "limit", panelsdk.DefaultLimit), maxPageLimit)
	search := strings.ToLower(strings.TrimSpace(q.Get("search")))

	var active *bool
	if v, err := strconv.ParseBool(q.Get("isActive")); err == nil {
		active = &v
	}

	matched := make([]panelsdk.Product, 0)
	for _, rec := range r.data.storeProducts(st.ID) {
		p := rec.Product
		if active != nil && p.IsActive != *active {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		matched = append(matched, p)
	}

	total := len(matched)
	// Clamp before multiplying so a huge page cannot overflow.
	start := min(min(page-1, total)*limit, total)
	end := min(start+limit, total)

	httpx.WriteData(w, http.StatusOK, panelsdk.ProductList{
		Products: matched[start:end],
		Pagination: panelsdk.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: (total + limit - 1) / limit,
		},
	})
}

func (r *Router) handleGetProduct(w http.ResponseWriter, req *http.Request) {
	st, ok := r.storeFor(w, req)
	if !ok {
		return
	}
	rec, err := r.data.product(st.ID, req.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}
	httpx.WriteData(w, http.StatusOK, panelsdk.ProductResponse{Product: rec.Product})
}

func (r *Router) handleCreateProduct(w http.ResponseWriter, req *http.Request) {
	st, ok := r.storeFor(w, req)
	if !ok {
		return
	}

	var body panelsdk.ProductInput
	if !decodeValid(w, req, &body) {
		return
	}

	p := panelsdk.Product{
		ID:              idx.New().String(),
		Name:            strings.TrimSpace(body.Name),
		Weight:          body.Weight,
		PopularityScore: body.PopularityScore,
		IsActive:        body.IsActive == nil || *body.IsActive,
		CreatedAt:       r.now().UTC(),
	}
	p.CalculatedPrice = price(p.Weight, p.PopularityScore)
	p.Images = productImages(p.ID, body.Colors)

	r.data.insertProduct(st.ID, p, 0)

	slogx.FromContext(req.Context()).Info("product created", "store_id", st.ID, "product_id", p.ID)
	httpx.WriteJSON(w, http.StatusCreated, httpx.Envelope{
		Success: true,
		Message: "Product created successfully",
		Data:    panelsdk.CreateProductResponse{Product: p, Images: p.Images},
	})
}

func (r *Router) handleUpdateProduct(w http.ResponseWriter, req *http.Request) {
	st, ok := r.storeFor(w, req)
	if !ok {
		return
	}

	var body panelsdk.ProductUpdate
	if !decodeValid(w, req, &body) {
		return
	}

	p, err := r.data.updateProduct(st.ID, req.PathValue("id"), func(p *panelsdk.Product) {
		if body.Name != nil {
			p.Name = strings.TrimSpace(*body.Name)
		}
		if body.Weight != nil {
			p.Weight = *body.Weight
		}
		if body.PopularityScore != nil {
			p.PopularityScore = *body.PopularityScore
		}
		if body.IsActive != nil {
			p.IsActive = *body.IsActive
		}
		if body.Colors != nil {
			p.Images = productImages(p.ID, body.Colors)
		}
		p.CalculatedPrice = price(p.Weight, p.PopularityScore)
	})
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{
		Success: true,
		Message: "Product updated successfully",
		Data:    panelsdk.ProductResponse{Product: p},
	})
}

func (r *Router) handleDeleteProduct(w http.ResponseWriter, req *http.Request) {
	st, ok := r.storeFor(w, req)
	if !ok {
		return
	}
	id := req.PathValue("id")
	if err := r.data.deleteProduct(st.ID, id); err != nil {
		httpx.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}
	slogx.FromContext(req.Context()).Info("product deleted", "store_id", st.ID, "product_id", id)
	httpx.WriteMessage(w, http.StatusOK, "Product deleted successfully")
}
