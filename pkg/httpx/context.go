package httpx

import (
	"context"

	"github.com/bedirhantong/renart-vendor-panel/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyVendorID ctxKey = "vendor_id"
	CtxKeyClaims   ctxKey = "claims"
)

// VendorIDFromContext returns the authenticated vendor, if any.
func VendorIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyVendorID).(string)
	return v, ok && v != ""
}

// ClaimsFromContext returns the verified access-token claims.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyVendorID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}
