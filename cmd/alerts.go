package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/property-alerts/internal/logger"
	"github.com/spigell/property-alerts/internal/matching"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List saved alerts with their criteria",
	Run: func(cmd *cobra.Command, _ []string) {
		listAlerts(cmd)
	},
}

func init() {
	rootCmd.AddCommand(alertsCmd)

	alertsCmd.Flags().Bool("active", false, "show only active alerts")
}

func listAlerts(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	client, release, err := newClient(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating the CRM client", zap.Error(err))
	}
	defer release()

	alerts, err := client.Alerts(ctx)
	if err != nil {
		logger.Fatal("getting alerts", zap.Error(err))
	}

	items := alerts.All()
	if onlyActive, _ := cmd.Flags().GetBool("active"); onlyActive {
		items = alerts.Active()
	}

	if err := printAlerts(os.Stdout, items); err != nil {
		logger.Fatal("printing alerts", zap.Error(err))
	}
}

func printAlerts(out io.Writer, alerts []matching.Alert) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tACTIVE\tFREQUENCY\tCRITERIA")
	for _, alert := range alerts {
		frequency := alert.Frequency
		if frequency == "" {
			frequency = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", alert.ID, alert.Name, alert.Active, frequency, matching.Summarize(alert.Criteria))
	}
	return w.Flush()
}
