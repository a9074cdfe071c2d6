package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/links"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/partners"
)

func issueCmd(load envLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a batch of links for an owner",
		Long: `Issue a batch of links. Use --owner starter-user for starter links,
which never expire regardless of --expiry-hours.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetString("owner")
			count, _ := cmd.Flags().GetInt("count")
			expiryHours, _ := cmd.Flags().GetInt("expiry-hours")

			e, err := load(cmd.Context())
			if err != nil {
				return err
			}

			var opts links.IssueOptions
			if expiryHours != 0 {
				if opts.Expiry, err = links.ExpiryFromHours(expiryHours); err != nil {
					return err
				}
			}

			issued, err := links.NewIssuer(e.Store).IssueBatch(cmd.Context(), models.ParseOwner(owner), count, opts)
			if err != nil {
				return err
			}
			for _, l := range issued {
				fmt.Fprintln(cmd.OutOrStdout(), l.Token)
			}
			return nil
		},
	}

	cmd.Flags().StringP("owner", "o", "", "Owner id (partner id or starter-user)")
	cmd.Flags().IntP("count", "n", 1, "Number of links to issue")
	cmd.Flags().Int("expiry-hours", 0, "Hours until the links expire (0 = never)")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func countCmd(load envLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count an owner's links by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetString("owner")
			raw, _ := cmd.Flags().GetString("status")

			status, ok := models.ParseLinkStatus(raw)
			if !ok {
				return fmt.Errorf("unknown status %q (all, used, unused, sold, unsold)", raw)
			}

			e, err := load(cmd.Context())
			if err != nil {
				return err
			}

			n, err := links.NewInventory(e.Store).Count(cmd.Context(), models.ParseOwner(owner), status)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	cmd.Flags().StringP("owner", "o", "", "Owner id (partner id or starter-user)")
	cmd.Flags().StringP("status", "s", "all", "Status filter")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func validateCmd(load envLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [token]",
		Short: "Check a link without consuming it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(cmd.Context())
			if err != nil {
				return err
			}

			res, err := links.NewValidator(e.Store, nil).Validate(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "valid\n")
			fmt.Fprintf(out, "  owner:   %s\n", res.Owner.ID())
			fmt.Fprintf(out, "  session: %s\n", res.SessionID)
			if res.ExpiresAt != nil {
				fmt.Fprintf(out, "  expires: %s\n", res.ExpiresAt.Format(time.RFC3339))
			} else {
				fmt.Fprintf(out, "  expires: never\n")
			}
			return nil
		},
	}
}

func releaseClaimCmd(load envLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "release-claim [transaction-id]",
		Short: "Release a stuck PENDING payment claim so the next delivery can fulfill it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(cmd.Context())
			if err != nil {
				return err
			}

			if err := e.Store.ReleaseClaim(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to release claim %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "released %s\n", args[0])
			return nil
		},
	}
}

func decryptCmd(load envLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt [ciphertext]",
		Short: "Decrypt a stored field value (plaintext values are echoed back)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.Cipher.DecryptOrRaw(args[0]))
			return nil
		},
	}
}

func createAdminCmd(load envLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account for the back office",
		Long: `Create an admin account. Admins may issue, list and sell links for any owner.
Without --password the password is read from the first line of stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			business, _ := cmd.Flags().GetString("business-name")
			password, _ := cmd.Flags().GetString("password")

			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given on --password or stdin")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			e, err := load(cmd.Context())
			if err != nil {
				return err
			}

			dir := partners.NewDirectory(e.Store, e.Cipher, nil, nil, 0)
			admin, err := dir.Signup(cmd.Context(), partners.SignupInput{
				Email:        email,
				Password:     password,
				Name:         name,
				BusinessName: business,
				Role:         models.RoleAdmin,
			})
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s\n", admin.PartnerID)
			return nil
		},
	}

	cmd.Flags().String("email", "", "Login email")
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("business-name", "", "Business name shown on branded links")
	cmd.Flags().String("password", "", "Password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("business-name")

	return cmd
}
