package command

import (
	"fmt"

	"github.com/moliceiro/meals/client"
	"github.com/moliceiro/meals/views"
	"github.com/spf13/cobra"
)

func weatherCommand(api func() *client.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Weather forecasts",
	}

	var date, location string
	forecast := &cobra.Command{
		Use:   "forecast",
		Short: "Show the forecast of a location on a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := api().GetWeatherForecast(cmd.Context(), date, location)
			if err != nil {
				return fmt.Errorf("Failed to load weather information: %w", err)
			}
			p := views.NewWeatherPanel(f)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Weather for %s on %s\n", p.Location, p.Date)
			fmt.Fprintf(out, "Temperature: %s\n", p.Temperature)
			fmt.Fprintf(out, "Description: %s\n", p.Description)
			fmt.Fprintf(out, "Humidity: %s\n", p.Humidity)
			fmt.Fprintf(out, "Wind Speed: %s\n", p.WindSpeed)
			return nil
		},
	}
	forecast.Flags().StringVar(&date, "date", "", "forecast date (YYYY-MM-DD), today when empty")
	forecast.Flags().StringVar(&location, "location", "", "city,country")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show forecast cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := api().GetCacheStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("Failed to load cache statistics: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Requests: %d\nHits: %d\nMisses: %d\nHit rate: %.2f\n",
				s.TotalRequests, s.CacheHits, s.CacheMisses, s.HitRate)
			return nil
		},
	}

	cmd.AddCommand(forecast, stats)
	return cmd
}
