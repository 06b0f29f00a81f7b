package app

import (
	"fmt"
	"io"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/domain"
	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
	"github.com/spf13/cobra"
)

func newDashboardCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show store statistics and top products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.app.Dashboard.Get(cmd.Context())
			if err != nil {
				return err
			}
			return c.out.emit(d, func(w io.Writer) { printDashboard(w, d) })
		},
	}
}

func newProfileCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View or edit the store profile",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show the store profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := c.app.Profile.Get(cmd.Context())
			if err != nil {
				return err
			}
			return c.out.emit(prof, func(w io.Writer) {
				printStore(w, domain.Store{
					ID:          prof.Store.ID,
					Name:        prof.Store.Name,
					Description: prof.Store.Description,
					LogoURL:     prof.Store.LogoURL,
					Email:       prof.Store.Email,
					IsActive:    prof.Store.IsActive,
				})
			})
		},
	}

	var name, description, logoURL string
	update := &cobra.Command{
		Use:   "update",
		Short: "Change store name, description or logo",
		Long: `Change store settings. Only the flags given are sent.

Examples:
  panel profile update --name "Renart Atelier"
  panel profile update --logo-url https://cdn.example.com/logo.png --description ""`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var u panelsdk.ProfileUpdate
			f := cmd.Flags()
			if f.Changed("name") {
				u.Name = &name
			}
			if f.Changed("description") {
				u.Description = &description
			}
			if f.Changed("logo-url") {
				u.LogoURL = &logoURL
			}
			if u == (panelsdk.ProfileUpdate{}) {
				return fmt.Errorf("nothing to update: pass --name, --description or --logo-url")
			}

			st, err := c.app.Profile.Update(cmd.Context(), u)
			if err != nil {
				return err
			}
			return c.out.emit(st, func(w io.Writer) {
				fmt.Fprintln(w, "Store updated.")
				printStore(w, st)
			})
		},
	}
	update.Flags().StringVar(&name, "name", "", "store name")
	update.Flags().StringVar(&description, "description", "", "store description")
	update.Flags().StringVar(&logoURL, "logo-url", "", "logo image URL")

	cmd.AddCommand(get, update)
	return cmd
}

func newProductsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Manage the product catalogue",
	}
	cmd.AddCommand(
		newProductsListCmd(c),
		newProductsGetCmd(c),
		newProductsCreateCmd(c),
		newProductsUpdateCmd(c),
		newProductsDeleteCmd(c),
	)
	return cmd
}

func newProductsListCmd(c *cli) *cobra.Command {
	var q panelsdk.ProductQuery
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Long: `List products, newest first.

Examples:
  panel products list
  panel products list --search ring --status active --page 2 --limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Status = panelsdk.ProductStatus(status)
			list, err := c.app.Products.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			return c.out.emit(list, func(w io.Writer) { printProducts(w, list) })
		},
	}

	f := cmd.Flags()
	f.IntVar(&q.Page, "page", panelsdk.DefaultPage, "page number")
	f.IntVar(&q.Limit, "limit", panelsdk.DefaultLimit, "products per page")
	f.StringVar(&q.Search, "search", "", "filter by name")
	f.StringVar(&status, "status", string(panelsdk.StatusAll), "all, active or inactive")
	return cmd
}

func newProductsGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.Products.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.out.emit(p, func(w io.Writer) { printProduct(w, p) })
		},
	}
}

func newProductsCreateCmd(c *cli) *cobra.Command {
	var (
		name       string
		weight     string
		popularity float64
		colors     []string
		inactive   bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a product",
		Long: `Add a product. Each --color adds an image variant.

Examples:
  panel products create --name "Engagement Ring" --weight 2.1 --popularity 8.5 --color yellow --color rose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseWeight(weight)
			if err != nil {
				return err
			}
			active := !inactive
			p, err := c.app.Products.Create(cmd.Context(), panelsdk.ProductInput{
				Name:            name,
				Weight:          w,
				PopularityScore: popularity,
				Colors:          colors,
				IsActive:        &active,
			})
			if err != nil {
				return err
			}
			return c.out.emit(p, func(w io.Writer) {
				fmt.Fprintln(w, "Product created.")
				printProduct(w, p)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "product name")
	f.StringVar(&weight, "weight", "", "weight in grams, e.g. 2.35")
	f.Float64Var(&popularity, "popularity", 0, "popularity score (0-10)")
	f.StringArrayVar(&colors, "color", nil, "colour: yellow, white or rose (repeatable)")
	f.BoolVar(&inactive, "inactive", false, "create the product hidden from the storefront")
	return cmd
}

func newProductsUpdateCmd(c *cli) *cobra.Command {
	var (
		name       string
		weight     string
		popularity float64
		colors     []string
		active     bool
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a product",
		Long: `Change a product. Only the flags given are sent.

Examples:
  panel products update 01J... --active=false
  panel products update 01J... --weight 2.4 --color white`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u panelsdk.ProductUpdate
			f := cmd.Flags()
			if f.Changed("name") {
				u.Name = &name
			}
			if f.Changed("weight") {
				w, err := parseWeight(weight)
				if err != nil {
					return err
				}
				u.Weight = &w
			}
			if f.Changed("popularity") {
				u.PopularityScore = &popularity
			}
			if f.Changed("color") {
				u.Colors = colors
			}
			if f.Changed("active") {
				u.IsActive = &active
			}

			p, err := c.app.Products.Update(cmd.Context(), args[0], u)
			if err != nil {
				return err
			}
			return c.out.emit(p, func(w io.Writer) {
				fmt.Fprintln(w, "Product updated.")
				printProduct(w, p)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "product name")
	f.StringVar(&weight, "weight", "", "weight in grams")
	f.Float64Var(&popularity, "popularity", 0, "popularity score (0-10)")
	f.StringArrayVar(&colors, "color", nil, "replace colours (repeatable)")
	f.BoolVar(&active, "active", true, "show the product on the storefront")
	return cmd
}

func newProductsDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Products.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return c.out.message("Product deleted.")
		},
	}
}

// parseWeight leaves an empty weight as zero so validation reports it.
func parseWeight(s string) (panelsdk.Decimal, error) {
	if s == "" {
		return panelsdk.Decimal{}, nil
	}
	w, err := panelsdk.NewDecimal(s)
	if err != nil {
		return panelsdk.Decimal{}, fmt.Errorf("--weight %q is not a number", s)
	}
	return w, nil
}
