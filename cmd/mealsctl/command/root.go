// Package command holds the mealsctl commands. Each one calls the meals REST
// API through the client package and prints a table:
//
//	mealsctl restaurants list
//	mealsctl meals list [--restaurant ID] [--date YYYY-MM-DD] [--type lunch]
//	mealsctl reservations list [--meal ID] [--date YYYY-MM-DD] [--status active]
//	mealsctl reservations create --meal ID --name NAME --email EMAIL --people N
//	mealsctl reservations checkin|cancel|delete CODE
//	mealsctl weather forecast [--date YYYY-MM-DD] [--location Aveiro,PT]
//	mealsctl weather stats
package command

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/moliceiro/meals/client"
	"github.com/spf13/cobra"
)

const defaultAPI = "http://localhost:8080"

// NewRootCommand builds the command tree. Every sub-command talks to the
// API named by --api.
func NewRootCommand() *cobra.Command {
	var apiURL string

	root := &cobra.Command{
		Use:           "mealsctl",
		Short:         "Manage restaurants, meals and reservations from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	api := func() *client.Client { return client.New(apiURL) }

	defaultURL := defaultAPI
	if v, ok := os.LookupEnv("MEALS_API_URL"); ok && v != "" {
		defaultURL = v
	}
	root.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "base URL of the meals API")

	root.AddCommand(
		restaurantsCommand(api),
		mealsCommand(api),
		reservationsCommand(api),
		weatherCommand(api),
	)
	return root
}

// Execute runs the command tree against os.Args and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func table(out io.Writer, header string, rows func(w io.Writer)) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	return w.Flush()
}
