// cmd/c8y-mcp/creds.go
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"c8ymcp/pkg/auth"
	"c8ymcp/pkg/tenanturl"
)

func newCredsCommand(a *app) *cobra.Command {
	opts := &addOptions{}
	cmd := &cobra.Command{
		Use:   "creds",
		Short: "Manage stored Cumulocity credentials (defaults to add)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.Run(a, cmd)
		},
	}
	opts.AddFlags(cmd.Flags())
	cmd.AddCommand(newAddCommand(a), newListCommand(a), newRemoveCommand(a))
	return cmd
}

type addOptions struct {
	TenantURL     string
	User          string
	PasswordStdin bool
	Yes           bool
}

func (o *addOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.TenantURL, "tenant-url", "", "tenant URL, e.g. https://my-tenant.cumulocity.com")
	fs.StringVar(&o.User, "user", "", "user name")
	fs.BoolVar(&o.PasswordStdin, "password-stdin", false, "read the password from the first line of stdin")
	fs.BoolVarP(&o.Yes, "yes", "y", false, "overwrite existing credentials without asking")
}

func newAddCommand(a *app) *cobra.Command {
	opts := &addOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add credentials for a tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.Run(a, cmd)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func (o *addOptions) Run(a *app, cmd *cobra.Command) error {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	tenant := o.TenantURL
	if tenant == "" && !o.PasswordStdin {
		tenant = prompt(in, out, "Cumulocity tenant URL: ")
	}
	if err := validateTenantURL(tenant); err != nil {
		return err
	}
	user := o.User
	if user == "" && !o.PasswordStdin {
		user = prompt(in, out, "Username: ")
	}
	if user == "" {
		return errors.New("a user name is required")
	}
	password, err := readPassword(cmd.InOrStdin(), in, out, o.PasswordStdin)
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("a password is required")
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	exists, err := store.Exists(tenant)
	if err != nil {
		return err
	}
	if exists && !o.Yes {
		if o.PasswordStdin {
			return fmt.Errorf("credentials for %s already exist; pass --yes to overwrite", tenanturl.Normalize(tenant))
		}
		answer := prompt(in, out, "Credentials for this tenant already exist. Overwrite? [y/N]: ")
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if err := store.Save(auth.Basic{User: user, Password: password, TenantURL: tenant}); err != nil {
		return fmt.Errorf("failed to add credentials: %w", err)
	}
	fmt.Fprintf(out, "Credentials saved for %s.\n", tenanturl.Normalize(tenant))
	return nil
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tenants with stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			creds, err := store.List()
			if err != nil {
				return fmt.Errorf("failed to list credentials: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(creds) == 0 {
				fmt.Fprintln(out, "No credentials stored.")
				return nil
			}
			for _, c := range creds {
				fmt.Fprintf(out, "%s — %s\n", c.TenantURL, c.User)
			}
			return nil
		},
	}
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove [tenantUrl...]",
		Short: "Remove stored credentials; without arguments, choose from a list",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			targets := args
			if len(targets) == 0 {
				creds, err := store.List()
				if err != nil {
					return fmt.Errorf("failed to list credentials: %w", err)
				}
				if len(creds) == 0 {
					fmt.Fprintln(out, "No credentials stored.")
					return nil
				}
				for i, c := range creds {
					fmt.Fprintf(out, "%d) %s — %s\n", i+1, c.TenantURL, c.User)
				}
				answer := prompt(bufio.NewReader(cmd.InOrStdin()), out, "Select credentials to remove (e.g. 1,3): ")
				if answer == "" {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
				for _, f := range strings.Split(answer, ",") {
					n, err := strconv.Atoi(strings.TrimSpace(f))
					if err != nil || n < 1 || n > len(creds) {
						return fmt.Errorf("invalid selection %q", strings.TrimSpace(f))
					}
					targets = append(targets, creds[n-1].TenantURL)
				}
			}

			removed := 0
			for _, t := range targets {
				ok, err := store.Delete(t)
				if err != nil {
					return fmt.Errorf("failed to remove credentials for %s: %w", t, err)
				}
				if !ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "No credentials stored for: %s\n", tenanturl.Normalize(t))
					continue
				}
				removed++
			}
			if removed == 0 {
				fmt.Fprintln(out, "No credentials were removed.")
				return nil
			}
			fmt.Fprintf(out, "Removed %d credential(s).\n", removed)
			return nil
		},
	}
}

func validateTenantURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid tenant URL %q: expected e.g. https://my-tenant.cumulocity.com", raw)
	}
	return nil
}

func prompt(in *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

// readPassword reads without echo from a terminal, otherwise one line from
// the already buffered input.
func readPassword(raw io.Reader, in *bufio.Reader, out io.Writer, fromStdin bool) (string, error) {
	if f, ok := raw.(*os.File); ok && !fromStdin && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	if !fromStdin {
		fmt.Fprint(out, "Password: ")
	}
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
