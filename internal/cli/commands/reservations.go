package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/carthatamaz/cartha/internal/cli/client"
	"github.com/carthatamaz/cartha/internal/cli/session"
)

// NewReservationsCmd creates the reservations command group
func NewReservationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reservations",
		Aliases: []string{"res"},
		Short:   "Book stays and manage incoming bookings",
	}

	cmd.AddCommand(newReservationsListCmd())
	cmd.AddCommand(newReservationsBookCmd())
	cmd.AddCommand(newReservationsCancelCmd())
	cmd.AddCommand(newReservationsIncomingCmd())
	cmd.AddCommand(newReservationsConfirmCmd())
	cmd.AddCommand(newReservationsRejectCmd())

	return cmd
}

func newReservationsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List your bookings (guests)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected([]session.Role{session.RoleGuest, session.RoleAdmin}, func(ctx context.Context, e *env, sess session.Session) error {
				reservations, err := e.api.Reservations(ctx)
				if err != nil {
					return fmt.Errorf("failed to list reservations: %w", err)
				}
				printReservationTable(reservations)
				return nil
			})
		},
	}
}

func newReservationsBookCmd() *cobra.Command {
	var req client.ReservationRequest

	cmd := &cobra.Command{
		Use:   "book <guesthouse-id>",
		Short: "Book a guesthouse (guests)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.GuesthouseID = args[0]
			if req.CheckInDate == "" || req.CheckOutDate == "" {
				return fmt.Errorf("--check-in and --check-out are required (YYYY-MM-DD)")
			}

			return runProtected([]session.Role{session.RoleGuest, session.RoleAdmin}, func(ctx context.Context, e *env, sess session.Session) error {
				res, err := e.api.CreateReservation(ctx, req)
				if err != nil {
					return fmt.Errorf("booking failed: %w", err)
				}
				fmt.Printf("✓ Booked %s to %s, total %.2f. Reservation %s is pending host confirmation.\n",
					res.CheckInDate, res.CheckOutDate, res.TotalPrice, res.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.CheckInDate, "check-in", "", "Check-in date YYYY-MM-DD")
	cmd.Flags().StringVar(&req.CheckOutDate, "check-out", "", "Check-out date YYYY-MM-DD")
	cmd.Flags().IntVar(&req.NumberOfGuests, "guests", 1, "Number of guests")
	cmd.Flags().StringVar(&req.SpecialRequests, "note", "", "Special requests for the host")

	return cmd
}

func newReservationsCancelCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel your booking (guests)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected([]session.Role{session.RoleGuest, session.RoleAdmin}, func(ctx context.Context, e *env, sess session.Session) error {
				if err := e.api.CancelReservation(ctx, args[0], reason); err != nil {
					return fmt.Errorf("cancellation failed: %w", err)
				}
				fmt.Println("✓ Reservation cancelled.")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Cancellation reason")

	return cmd
}

func newReservationsIncomingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "incoming",
		Short: "List bookings on your listings (hosts)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected([]session.Role{session.RoleOwner, session.RoleAdmin}, func(ctx context.Context, e *env, sess session.Session) error {
				reservations, err := e.api.OwnerReservations(ctx)
				if err != nil {
					return fmt.Errorf("failed to list incoming reservations: %w", err)
				}
				printReservationTable(reservations)
				return nil
			})
		},
	}
}

func newReservationsConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <id>",
		Short: "Confirm a pending booking (hosts)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected([]session.Role{session.RoleOwner, session.RoleAdmin}, func(ctx context.Context, e *env, sess session.Session) error {
				res, err := e.api.ConfirmReservation(ctx, args[0])
				if err != nil {
					return fmt.Errorf("confirmation failed: %w", err)
				}
				fmt.Printf("✓ Reservation %s confirmed.\n", res.ID)
				return nil
			})
		},
	}
}

func newReservationsRejectCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending booking (hosts)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected([]session.Role{session.RoleOwner, session.RoleAdmin}, func(ctx context.Context, e *env, sess session.Session) error {
				res, err := e.api.RejectReservation(ctx, args[0], reason)
				if err != nil {
					return fmt.Errorf("rejection failed: %w", err)
				}
				fmt.Printf("✓ Reservation %s rejected.\n", res.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Rejection reason shown to the guest")

	return cmd
}

func printReservationTable(reservations []client.Reservation) {
	if len(reservations) == 0 {
		fmt.Println("No reservations found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGUESTHOUSE\tCHECK-IN\tCHECK-OUT\tGUESTS\tTOTAL\tSTATUS")
	for _, res := range reservations {
		name := res.GuesthouseID
		if res.Guesthouse != nil {
			name = res.Guesthouse.Title
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f\t%s\n",
			res.ID, name, res.CheckInDate, res.CheckOutDate, res.NumberOfGuests, res.TotalPrice, res.Status)
	}
	w.Flush()
}
