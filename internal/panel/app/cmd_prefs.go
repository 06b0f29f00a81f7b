package app

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/domain"
	"github.com/spf13/cobra"
)

func newPrefsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change UI preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printPrefs()
		},
	}

	theme := &cobra.Command{
		Use:       "theme light|dark",
		Short:     "Set the colour theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.ThemeLight), string(domain.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := domain.ParseTheme(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Preferences.SetTheme(cmd.Context(), t); err != nil {
				return err
			}
			return c.printPrefs()
		},
	}

	sidebar := &cobra.Command{
		Use:       "sidebar open|closed|toggle",
		Short:     "Open, close or toggle the sidebar",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"open", "closed", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var err error
			switch args[0] {
			case "open":
				err = c.app.Preferences.SetSidebarOpen(ctx, true)
			case "closed", "close":
				err = c.app.Preferences.SetSidebarOpen(ctx, false)
			case "toggle":
				err = c.app.Preferences.ToggleSidebar(ctx)
			default:
				return fmt.Errorf("unknown sidebar state %q", args[0])
			}
			if err != nil {
				return err
			}
			return c.printPrefs()
		},
	}

	cmd.AddCommand(theme, sidebar)
	return cmd
}

func (c *cli) printPrefs() error {
	p := c.app.Preferences.Preferences()
	return c.out.emit(p, func(w io.Writer) {
		fmt.Fprintf(w, "Theme:\t%s\n", p.Theme)
		fmt.Fprintf(w, "Sidebar open:\t%t\n", p.SidebarOpen)
	})
}

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the session fresh until interrupted",
		Long: `Refresh the access token shortly before it expires, and end the session
when it can no longer be renewed. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Guard.Require(cmd.Context()); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			unsubscribe := c.app.Session.Subscribe(func(s domain.Session) {
				switch {
				case !s.IsAuthenticated:
					fmt.Fprintln(out, "session ended")
				case !s.ExpiresAt.IsZero():
					fmt.Fprintf(out, "token valid until %s\n", s.ExpiresAt.Local().Format("15:04:05"))
				}
			})
			defer unsubscribe()

			w := c.app.Watcher()
			w.Start()
			<-ctx.Done()
			w.Stop()
			return nil
		},
	}
}
