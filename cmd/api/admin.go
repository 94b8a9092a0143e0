package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fureverhome/fureverhome-go/internal/metrics"
	"github.com/fureverhome/fureverhome-go/internal/migrate"
	"github.com/fureverhome/fureverhome-go/internal/repository"
	"github.com/fureverhome/fureverhome-go/internal/service"
)

func migrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Apply pending schema migrations to the configured database.

Examples:
  fureverhome migrate
  fureverhome migrate --down`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if down {
				err = migrate.Down(ctx, a.db)
			} else {
				err = migrate.Up(ctx, a.db)
			}
			if err != nil {
				return err
			}

			version, err := migrate.Version(ctx, a.db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")
	return cmd
}

func promoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote [email]",
		Short: "Grant the admin role to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			users := repository.NewUserRepository(a.db)
			auth := service.NewAuthService(users, service.NewRoleResolver(users, 0), nil, a.cfg.JWTSecret, a.cfg.JWTExpiry)
			if err := auth.Promote(ctx, args[0]); err != nil {
				return fmt.Errorf("promote %s: %w", args[0], err)
			}

			a.log.Info("user promoted", zap.String("email", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", args[0])
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [campaign-id]",
		Short: "Recompute campaign totals from their donation records",
		Long: `Recompute donated totals from the donation records.

With no argument every campaign is checked and drifted ones are reported.

Examples:
  fureverhome reconcile
  fureverhome reconcile 6f9619ff-8b86-d011-b42d-00c04fc964ff`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			users := repository.NewUserRepository(a.db)
			ledger := service.NewLedgerService(
				repository.NewDonationRepository(a.db),
				repository.NewCampaignRepository(a.db),
				service.NewRoleResolver(users, 0),
				nil,
				metrics.Nop{},
			)
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				res, err := ledger.Reconcile(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %s -> %s (drift %s)\n", res.CampaignID, res.Before, res.After, res.Drift)
				return nil
			}

			drifted, err := ledger.ReconcileAll(ctx)
			for _, res := range drifted {
				fmt.Fprintf(out, "%s: %s -> %s (drift %s)\n", res.CampaignID, res.Before, res.After, res.Drift)
				a.log.Warn("campaign total corrected", zap.String("campaign_id", res.CampaignID), zap.String("drift", res.Drift.String()))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d campaign(s) corrected\n", len(drifted))
			return nil
		},
	}
}
