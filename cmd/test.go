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

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Evaluate one alert against one property and print the breakdown",
	Run: func(cmd *cobra.Command, _ []string) {
		testAlert(cmd)
	},
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().String("alert", "", "alert id")
	testCmd.Flags().String("property", "", "property id")
	testCmd.MarkFlagRequired("alert")
	testCmd.MarkFlagRequired("property")
}

func testAlert(cmd *cobra.Command) {
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

	alertID, _ := cmd.Flags().GetString("alert")
	propertyID, _ := cmd.Flags().GetString("property")

	alert, err := client.Alert(ctx, alertID)
	if err != nil {
		logger.Fatal("getting alert", zap.Error(err))
	}

	prop, err := client.Property(ctx, propertyID)
	if err != nil {
		logger.Fatal("getting property", zap.Error(err))
	}

	if !alert.Active {
		logger.Info("alert is inactive, evaluating anyway", zap.String("alert_id", alert.ID))
	}

	result := matching.NewEngine(logger).Test(prop.Candidate, *alert)

	if err := printBreakdown(os.Stdout, *alert, result); err != nil {
		logger.Fatal("printing breakdown", zap.Error(err))
	}
}

func printBreakdown(out io.Writer, alert matching.Alert, result matching.MatchResult) error {
	fmt.Fprintf(out, "Alert:    %s (%s)\n", alert.Name, alert.ID)
	fmt.Fprintf(out, "Criteria: %s\n", matching.Summarize(alert.Criteria))
	fmt.Fprintf(out, "Property: %s (%s)\n", result.Candidate.Name, result.Candidate.ID)

	score := "n/a"
	if percent, ok := result.Percent(); ok {
		score = fmt.Sprintf("%d%%", percent)
	}
	fmt.Fprintf(out, "Matched:  %t, score %s\n", result.Matched, score)

	if len(result.Details) == 0 {
		return nil
	}

	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CRITERION\tMATCHED\tSCORE\tVALUE\tEXPECTED")
	for _, d := range result.Details {
		fmt.Fprintf(w, "%s\t%t\t%d\t%s\t%s\n", d.Criterion, d.Matched, d.Score, d.Value, d.Expected)
	}

	return w.Flush()
}
