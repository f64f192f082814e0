package command

import (
	"fmt"
	"io"

	"github.com/moliceiro/meals/client"
	"github.com/moliceiro/meals/views"
	"github.com/spf13/cobra"
)

func restaurantsCommand(api func() *client.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restaurants",
		Short: "Restaurant actions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every restaurant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			restaurants, err := api().ListRestaurants(cmd.Context())
			if err != nil {
				return fmt.Errorf("Failed to load restaurants: %w", err)
			}
			cards := views.NewRestaurantCards(restaurants)
			if len(cards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No restaurants found")
				return nil
			}
			return table(cmd.OutOrStdout(), "ID\tNAME\tLOCATION\tCAPACITY\tHOURS", func(w io.Writer) {
				for _, r := range cards {
					fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", r.ID, r.Name, r.Location, r.Capacity, r.OperatingHours)
				}
			})
		},
	})
	return cmd
}
