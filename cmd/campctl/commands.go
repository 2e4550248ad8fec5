package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"campregistration/internal/adapters/auth"
	"campregistration/internal/domain"
	"campregistration/internal/repository/postgres"
	"campregistration/internal/services"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applied, err := postgres.Migrate(app.ctx, app.db)
			if err != nil {
				return err
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var email, name, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account that can sign in to the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := services.NewAdminAuthService(
				postgres.NewAdminRepository(app.db),
				auth.NewBcryptHasher(0),
				auth.NewJWT(app.cfg.JWTSecret),
				app.cfg.JWTExpiry,
			)
			admin, err := svc.CreateAdmin(app.ctx, email, name, password)
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", admin.Email, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 8 characters (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func approveMemberCmd() *cobra.Command {
	var revoke bool
	cmd := &cobra.Command{
		Use:   "approve-member <member_id>",
		Short: "Approve a member for shift registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := services.NewMemberService(postgres.NewMemberRepository(app.db))
			member, err := svc.SetApproval(app.ctx, args[0], !revoke)
			if err != nil {
				return fmt.Errorf("failed to update member: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> approved=%t\n", member.Name, member.Email, member.Approved)
			return nil
		},
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "revoke approval instead")
	return cmd
}

func availabilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "availability",
		Short: "Print the weekly shift availability matrix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			allocator := services.NewShiftAllocator(
				postgres.NewShiftRegistrationRepository(app.db, app.cfg.DBConnectTimeout),
				services.NewMemberService(postgres.NewMemberRepository(app.db)),
				nil,
				app.logger,
			)
			slots, err := allocator.GetAvailability(app.ctx)
			if err != nil {
				return err
			}
			return printAvailability(cmd.OutOrStdout(), slots)
		},
	}
}

func printAvailability(out io.Writer, slots []*domain.SlotAvailability) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tSHIFT\tMANAGER\tVOLUNTEERS\tFREE\tREGISTRANTS")
	for _, s := range slots {
		manager := "-"
		if s.ManagerCount > 0 {
			manager = "yes"
		} else if s.HasOrphanedVolunteers {
			manager = "MISSING"
		}
		names := make([]string, 0, len(s.Registrants))
		for _, r := range s.Registrants {
			names = append(names, r.Name)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d/%d\t%s\n",
			s.Day, s.ShiftTime, manager, s.VolunteerCount, s.AvailableSpots, s.Capacity, strings.Join(names, ", "))
	}
	return w.Flush()
}
