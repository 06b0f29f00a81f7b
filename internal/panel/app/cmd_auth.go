package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
	"github.com/spf13/cobra"
)

func newLoginCmd(c *cli) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a vendor",
		Long: `Sign in with your vendor email and password. The password is read from
stdin when --password is omitted.

Examples:
  panel login --email vendor@renart.com --password renart123
  echo renart123 | panel login --email vendor@renart.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = p
			}

			sess, err := c.app.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return c.out.emit(sess, func(w io.Writer) {
				fmt.Fprintf(w, "Welcome, %s.\n", sess.User.DisplayName())
				printSession(w, sess, c.app.Guard.Landing())
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "vendor email")
	cmd.Flags().StringVar(&password, "password", "", "vendor password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			return c.out.message("Logged out.")
		},
	}
}

func newRegisterCmd(c *cli) *cobra.Command {
	var req panelsdk.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a vendor account",
		Long: `Create a vendor account. Sign in with panel login afterwards.

Examples:
  panel register --email shop@example.com --password secret12 \
    --business-name "Gold Atelier" --business-type retail \
    --contact-name "Ayse Yilmaz" --contact-phone "+90 555 000 0000" \
    --address "Istanbul"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.app.Auth.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.out.emit(v, func(w io.Writer) {
				fmt.Fprintf(w, "Registered %s (%s).\n", v.BusinessName, v.Email)
				fmt.Fprintln(w, "Run `panel login` to sign in.")
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Email, "email", "", "account email")
	f.StringVar(&req.Password, "password", "", "account password")
	f.StringVar(&req.BusinessName, "business-name", "", "business name")
	f.StringVar(&req.BusinessType, "business-type", "", "business type")
	f.StringVar(&req.ContactName, "contact-name", "", "contact person")
	f.StringVar(&req.ContactPhone, "contact-phone", "", "contact phone")
	f.StringVar(&req.BusinessAddress, "address", "", "business address")
	f.StringVar(&req.TaxID, "tax-id", "", "tax ID")
	f.StringVar(&req.Description, "description", "", "store description")
	f.StringVar(&req.Website, "website", "", "website URL")
	return cmd
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := c.app.Session.Session()
			landing := c.app.Guard.Landing()
			return c.out.emit(struct {
				Session any    `json:"session"`
				Landing string `json:"landing"`
			}{sess, landing}, func(w io.Writer) {
				printSession(w, sess, landing)
			})
		},
	}
}

func newRefreshCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Renew the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Auth.Refresh(cmd.Context()); err != nil {
				return err
			}
			return c.out.message("Access token refreshed.")
		},
	}
}

func newPasswordCmd(c *cli) *cobra.Command {
	var req panelsdk.ChangePasswordRequest

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the account password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Auth.ChangePassword(cmd.Context(), req); err != nil {
				return err
			}
			return c.out.message("Password changed.")
		},
	}

	cmd.Flags().StringVar(&req.CurrentPassword, "current", "", "current password")
	cmd.Flags().StringVar(&req.NewPassword, "new", "", "new password")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
