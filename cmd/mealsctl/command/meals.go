package command

import (
	"fmt"
	"io"

	"github.com/moliceiro/meals/client"
	"github.com/moliceiro/meals/views"
	"github.com/spf13/cobra"
)

func mealsCommand(api func() *client.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meals",
		Short: "Meal actions",
	}

	var filter views.MealFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List meals, optionally filtered by restaurant, date and type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			meals, err := views.LoadMeals(cmd.Context(), api(), filter)
			if err != nil {
				return fmt.Errorf("Failed to load meals: %w", err)
			}
			cards := views.NewMealCards(meals)
			if len(cards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No meals found")
				return nil
			}
			return table(cmd.OutOrStdout(), "ID\tDATE\tTYPE\tNAME\tRESTAURANT\tPRICE", func(w io.Writer) {
				for _, m := range cards {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", m.ID, m.Date, m.MealType, m.Name, m.Restaurant, m.Price)
				}
			})
		},
	}
	list.Flags().UintVar(&filter.RestaurantID, "restaurant", 0, "restaurant id")
	list.Flags().StringVar(&filter.Date, "date", "", "meal date (YYYY-MM-DD)")
	list.Flags().StringVar(&filter.MealType, "type", "", "breakfast, lunch or dinner")

	cmd.AddCommand(list)
	return cmd
}
