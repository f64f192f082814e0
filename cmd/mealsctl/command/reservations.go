package command

import (
	"fmt"
	"io"

	"github.com/moliceiro/meals/client"
	"github.com/moliceiro/meals/views"
	"github.com/spf13/cobra"
)

func reservationsCommand(api func() *client.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reservations",
		Aliases: []string{"res"},
		Short:   "Reservation actions",
	}

	var filter views.ReservationFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List reservations, optionally filtered by meal, date and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reservations, err := views.LoadReservations(cmd.Context(), api(), filter)
			if err != nil {
				return fmt.Errorf("Failed to load reservations: %w", err)
			}
			cards := views.NewReservationCards(reservations)
			if len(cards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reservations found")
				return nil
			}
			return table(cmd.OutOrStdout(), "CODE\tSTATUS\tMEAL\tDATE\tCUSTOMER\tPEOPLE", func(w io.Writer) {
				for _, r := range cards {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", r.Code, r.Status, r.MealName, r.MealDate, r.Customer, r.People)
				}
			})
		},
	}
	list.Flags().UintVar(&filter.MealID, "meal", 0, "meal id")
	list.Flags().StringVar(&filter.Date, "date", "", "meal date (YYYY-MM-DD)")
	list.Flags().StringVar(&filter.Status, "status", "", "active, used or cancelled")

	var req client.ReservationRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Book a meal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := api().CreateReservation(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("Failed to create reservation: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reservation created successfully: %s\n", r.ReservationCode)
			return nil
		},
	}
	create.Flags().UintVar(&req.Meal.ID, "meal", 0, "meal id")
	create.Flags().StringVar(&req.CustomerName, "name", "", "customer name")
	create.Flags().StringVar(&req.CustomerEmail, "email", "", "customer e-mail")
	create.Flags().IntVar(&req.NumberOfPeople, "people", 1, "number of people")
	for _, f := range []string{"meal", "name", "email"} {
		_ = create.MarkFlagRequired(f)
	}

	checkin := codeCommand("checkin", "Check a reservation in", "Failed to check in reservation", "Reservation checked in successfully",
		func(cmd *cobra.Command, code string) error {
			_, err := api().MarkReservationUsed(cmd.Context(), code)
			return err
		})
	cancel := codeCommand("cancel", "Cancel a reservation", "Failed to cancel reservation", "Reservation cancelled successfully",
		func(cmd *cobra.Command, code string) error {
			_, err := api().CancelReservation(cmd.Context(), code)
			return err
		})
	del := codeCommand("delete", "Delete a reservation", "Failed to delete reservation", "Reservation deleted successfully",
		func(cmd *cobra.Command, code string) error {
			return api().DeleteReservation(cmd.Context(), code)
		})

	cmd.AddCommand(list, create, checkin, cancel, del)
	return cmd
}

// codeCommand builds an action taking a reservation code argument.
func codeCommand(use, short, failure, success string, run func(cmd *cobra.Command, code string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " CODE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(cmd, args[0]); err != nil {
				return fmt.Errorf("%s: %w", failure, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), success)
			return nil
		},
	}
}
