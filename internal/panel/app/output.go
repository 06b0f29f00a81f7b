package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/domain"
	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
)

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
)

type printer struct {
	w      io.Writer
	format string
}

// emit writes v as JSON when requested, otherwise calls text.
func (p printer) emit(v any, text func(w io.Writer)) error {
	if p.format == OutputJSON {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	text(tw)
	return tw.Flush()
}

func (p printer) message(msg string) error {
	return p.emit(map[string]string{"message": msg}, func(w io.Writer) {
		fmt.Fprintln(w, msg)
	})
}

func printSession(w io.Writer, s domain.Session, landing string) {
	if !s.IsAuthenticated {
		fmt.Fprintln(w, "Not logged in.")
		fmt.Fprintf(w, "Landing:\t%s\n", landing)
		return
	}
	fmt.Fprintf(w, "User:\t%s (%s)\n", s.User.DisplayName(), s.User.Initials())
	fmt.Fprintf(w, "Email:\t%s\n", s.User.Email)
	if s.Store != nil {
		fmt.Fprintf(w, "Store:\t%s\n", s.Store.Name)
	}
	if !s.ExpiresAt.IsZero() {
		fmt.Fprintf(w, "Expires:\t%s\n", s.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "Landing:\t%s\n", landing)
}

func printStore(w io.Writer, s domain.Store) {
	fmt.Fprintf(w, "ID:\t%s\n", s.ID)
	fmt.Fprintf(w, "Name:\t%s\n", s.Name)
	fmt.Fprintf(w, "Description:\t%s\n", s.Description)
	fmt.Fprintf(w, "Logo:\t%s\n", s.LogoURL)
	fmt.Fprintf(w, "Email:\t%s\n", s.Email)
	fmt.Fprintf(w, "Active:\t%t\n", s.IsActive)
}

func printDashboard(w io.Writer, d *panelsdk.Dashboard) {
	p := d.Statistics.Products
	fmt.Fprintf(w, "Products:\t%d total, %d active, %d inactive, %d new this week\n", p.Total, p.Active, p.Inactive, p.Recent)
	fmt.Fprintf(w, "Favorites:\t%d\n", d.Statistics.Favorites.Total)
	if len(d.TopProducts) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "TOP PRODUCT\tFAVORITES")
	for _, tp := range d.TopProducts {
		fmt.Fprintf(w, "%s\t%d\n", tp.Name, tp.FavoriteCount)
	}
}

func colors(images []panelsdk.ProductImage) string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		out = append(out, img.Color)
	}
	return strings.Join(out, ",")
}

func usd(p *panelsdk.Price) string {
	if p == nil {
		return "-"
	}
	return "$" + p.USD.StringFixed(2)
}

func printProducts(w io.Writer, list *panelsdk.ProductList) {
	fmt.Fprintln(w, "ID\tNAME\tWEIGHT\tPOPULARITY\tACTIVE\tPRICE\tCOLORS")
	for _, p := range list.Products {
		fmt.Fprintf(w, "%s\t%s\t%sg\t%.1f\t%t\t%s\t%s\n",
			p.ID, p.Name, p.Weight.String(), p.PopularityScore, p.IsActive, usd(p.CalculatedPrice), colors(p.Images))
	}
	pg := list.Pagination
	fmt.Fprintf(w, "\nPage %d of %d (%d products)\n", pg.Page, max(pg.Pages, 1), pg.Total)
}

func printProduct(w io.Writer, p *panelsdk.Product) {
	fmt.Fprintf(w, "ID:\t%s\n", p.ID)
	fmt.Fprintf(w, "Name:\t%s\n", p.Name)
	fmt.Fprintf(w, "Weight:\t%sg\n", p.Weight.String())
	fmt.Fprintf(w, "Popularity:\t%.1f\n", p.PopularityScore)
	fmt.Fprintf(w, "Active:\t%t\n", p.IsActive)
	if p.CalculatedPrice != nil {
		fmt.Fprintf(w, "Price:\t$%s / ₺%s\n", p.CalculatedPrice.USD.StringFixed(2), p.CalculatedPrice.TRY.StringFixed(2))
	}
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created:\t%s\n", p.CreatedAt.Local().Format("2006-01-02"))
	}
	for _, img := range p.Images {
		fmt.Fprintf(w, "Image (%s):\t%s\n", img.Color, img.ImageURL)
	}
}

// reportError prints err for a person: one line per invalid field, the
// server's message for API errors.
func reportError(w io.Writer, err error) {
	var verr *panelsdk.ValidationError
	if errors.As(err, &verr) {
		fields := make([]string, 0, len(verr.Fields))
		for f := range verr.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		fmt.Fprintln(w, "Please fix the following:")
		for _, f := range fields {
			fmt.Fprintf(w, "  %s: %s\n", f, verr.Fields[f])
		}
		return
	}

	var apiErr *panelsdk.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Error: %s\n", apiErr.Message)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
