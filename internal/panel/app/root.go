package app

import (
	"context"
	"fmt"
	"io"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/service"
	"github.com/spf13/cobra"
)

// cli carries what every command needs. app is built in the root's
// PersistentPreRunE once flags are parsed.
type cli struct {
	load func() (Config, error)

	apiURL   string
	logLevel string
	output   string
	metrics  bool

	app *Application
	out printer
}

// Execute runs the panel command line with os.Args.
func Execute(ctx context.Context, load func() (Config, error)) error {
	c := &cli{load: load}
	root := newRootCmd(c)

	err := root.ExecuteContext(ctx)
	if err != nil {
		reportError(root.ErrOrStderr(), err)
	}
	c.close(root.ErrOrStderr())
	return err
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "panel",
		Short: "RENART vendor panel",
		Long: `panel manages a RENART vendor store from the command line: sign in,
review the dashboard, and maintain the product catalogue and store profile.

Run without a subcommand to see where you would land.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.out.message(c.app.Guard.Landing())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.apiURL, "api-url", "", "vendor API base URL (overrides PANEL_API_URL)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	flags.StringVarP(&c.output, "output", "o", OutputText, "output format: text or json")
	flags.BoolVar(&c.metrics, "metrics", false, "print API client metrics to stderr on exit")

	root.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newRegisterCmd(c),
		newWhoamiCmd(c),
		newRefreshCmd(c),
		newPasswordCmd(c),
		newDashboardCmd(c),
		newProfileCmd(c),
		newProductsCmd(c),
		newPrefsCmd(c),
		newWatchCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if c.output != OutputText && c.output != OutputJSON {
		return fmt.Errorf("--output must be %q or %q", OutputText, OutputJSON)
	}

	cfg, err := c.load()
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.APIURL = c.apiURL
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}

	stderr := cmd.ErrOrStderr()
	app, err := New(cmd.Context(), cfg, terminalNavigator(stderr), stderr)
	if err != nil {
		return err
	}
	c.app = app
	c.out = printer{w: cmd.OutOrStdout(), format: c.output}
	cmd.SetContext(app.Context(cmd.Context()))
	return nil
}

func (c *cli) close(stderr io.Writer) {
	if c.app == nil {
		return
	}
	if c.metrics {
		_ = c.app.WriteMetrics(stderr)
	}
	_ = c.app.Close()
	c.app = nil
}

// terminalNavigator turns redirects into hints.
func terminalNavigator(w io.Writer) service.Navigator {
	return service.NavigatorFunc(func(path string) {
		if path == service.PathLogin {
			fmt.Fprintln(w, "You are signed out. Run `panel login` to continue.")
		}
	})
}
