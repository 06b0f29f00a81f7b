package panelsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

const pathProducts = "/api/v1/vendor/products"

func productPath(id string) string {
	return pathProducts + "/" + url.PathEscape(id)
}

// ListProducts returns one page of the vendor's products.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*Envelope[ProductList], error) {
	return Do[ProductList](ctx, c, "products.list", pathProducts, &RequestOptions{
		Query: q.Values(),
	})
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Envelope[ProductResponse], error) {
	return Do[ProductResponse](ctx, c, "products.get", productPath(id), nil)
}

// CreateProduct creates a product; the backend generates one image per colour.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Envelope[CreateProductResponse], error) {
	return Do[CreateProductResponse](ctx, c, "products.create", pathProducts, &RequestOptions{
		Method: http.MethodPost,
		Body:   in,
	})
}

// UpdateProduct is not idempotent from the client's point of view; callers
// should not retry it blindly.
func (c *Client) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*Envelope[ProductResponse], error) {
	return Do[ProductResponse](ctx, c, "products.update", productPath(id), &RequestOptions{
		Method: http.MethodPut,
		Body:   update,
	})
}

func (c *Client) DeleteProduct(ctx context.Context, id string) (*Envelope[json.RawMessage], error) {
	return Do[json.RawMessage](ctx, c, "products.delete", productPath(id), &RequestOptions{
		Method: http.MethodDelete,
	})
}
