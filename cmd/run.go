package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/property-alerts/internal/ai"
	"github.com/spigell/property-alerts/internal/filtering"
	"github.com/spigell/property-alerts/internal/listings"
	"github.com/spigell/property-alerts/internal/logger"
	"github.com/spigell/property-alerts/internal/matching"
)

const (
	PromptYes           = "Yes"
	PromptNo            = "No"
	PromptReportByAlert = "Report by alert"
	PromptMatchesToFile = "Dump matches to file"
	PromptPropsToFile   = "Dump properties to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Report matches to CRM and mark them notified?",
	Items: []string{PromptYes, PromptNo, PromptReportByAlert, PromptMatchesToFile, PromptPropsToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate active alerts against current listings",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before reporting matches")
	runCmd.Flags().StringP("notified-file", "n", "", "file with already notified properties. Default is unset.")
	runCmd.Flags().StringSlice("skip-filter", nil, "saved view filters to skip (status, agent, search)")

	viper.BindPFlag("notified-file", runCmd.Flags().Lookup("notified-file"))
}

// runner carries what the run actions need.
type runner struct {
	client    *listings.Client
	logger    *zap.Logger
	config    *Config
	props     *listings.Properties
	triggered *listings.Triggered
	actor     string
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting the property-alerts", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	client, release, err := newClient(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating the CRM client", zap.Error(err))
	}
	defer release()

	alerts, err := client.Alerts(ctx)
	if err != nil {
		logger.Fatal("getting alerts", zap.Error(err))
	}

	active := alerts.Active()
	logger.Info("getting alerts", zap.Int("count", alerts.Len()), zap.Int("active", len(active)))

	if len(active) == 0 {
		logger.Info("exiting", zap.String("reason", "no active alerts"))
		return
	}

	props, err := client.Properties(ctx, config.Search)
	if err != nil {
		logger.Fatal("getting properties", zap.Error(err))
	}

	logger.Info("getting properties", zap.Int("count", props.Len()))

	if props.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no properties found"))
		return
	}

	filters := filtering.New(filtering.NewSavedView(config.View), logger)
	skipped, _ := cmd.Flags().GetStringSlice("skip-filter")
	for _, name := range skipped {
		filters.DisableByName(name, "skipped by --skip-filter")
	}
	for _, status := range filters.Describe() {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	props, err = filters.RunFilters(ctx, props)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if props.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no properties left after filters"))
		return
	}

	engine := matching.NewEngine(logger)
	triggered := &listings.Triggered{Items: engine.Process(props.Candidates(), alerts.All())}

	if err := excludeNotified(config.NotifiedFile, triggered, logger); err != nil {
		logger.Fatal("excluding notified matches", zap.Error(err))
	}

	if triggered.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no new alert matches"))
		return
	}

	logTriggered(logger, triggered)

	if config.AI != nil && config.AI.Enabled {
		digestTriggered(ctx, config.AI, logger, triggered)
	}

	autoApprove := cmd.Flag("auto-approve").Value.String() == "true"

	r := &runner{
		client:    client,
		logger:    logger,
		config:    config,
		props:     props,
		triggered: triggered,
		actor:     listings.NotifiedActorUser,
	}
	if autoApprove {
		r.actor = listings.NotifiedActorAuto
	}

	action := PromptYes
	for {
		var err error
		if !autoApprove {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of triggered alerts",
			zap.Int("alerts", triggered.Len()),
			zap.Int("matches", triggered.PropertyCount()),
		)

		if err := r.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func (r *runner) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptYes:
		if err := r.report(ctx); err != nil {
			return err
		}
		return errExit
	case PromptNo:
		r.logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportByAlert:
		pretty, _ := json.MarshalIndent(r.triggered.ReportByAlert(), "", "  ")
		r.logger.Info(string(pretty), zap.Int("matches count", r.triggered.PropertyCount()))
		return nil
	case PromptMatchesToFile:
		filename, err := r.triggered.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		r.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptPropsToFile:
		filename, err := r.props.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump properties to file: %w", err)
		}
		r.logger.Info("dumping properties to file", zap.String("filename", filename), zap.Int("count", r.props.Len()))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// report stores every triggered alert in the CRM and records the matched
// properties in the notified file.
func (r *runner) report(ctx context.Context) error {
	for i := range r.triggered.Items {
		item := &r.triggered.Items[i]
		if err := r.client.ReportTriggered(ctx, item); err != nil {
			return err
		}
		r.logger.Info("reported triggered alert",
			append(logger.AlertFields(item.Alert.ID, item.Alert.Name), zap.Int("matches", item.Count))...,
		)
	}

	if r.config.NotifiedFile == "" {
		r.logger.Info("notified file is not set, skipping", zap.String("hint", "set notified-file to avoid repeated reports"))
		return nil
	}

	notified, err := listings.GetNotifiedFromFile(r.config.NotifiedFile)
	if err != nil {
		return fmt.Errorf("reading notified file: %w", err)
	}

	notified.Append(r.triggered.ToNotified(r.props, r.actor))

	if err := notified.ToFile(r.config.NotifiedFile); err != nil {
		return fmt.Errorf("writing notified file: %w", err)
	}

	r.logger.Info("notified file updated",
		zap.String("path", r.config.NotifiedFile),
		zap.Int("entries", notified.Len()),
	)

	return nil
}

// excludeNotified drops matches already reported for the same alert.
func excludeNotified(path string, triggered *listings.Triggered, log *zap.Logger) error {
	if path == "" {
		return nil
	}

	notified, err := listings.GetNotifiedFromFile(path)
	if err != nil {
		return fmt.Errorf("reading notified file: %w", err)
	}

	removed := triggered.ExcludeNotified(notified)
	log.Info("excluded notified matches",
		zap.String("path", path),
		zap.Int("removed", removed),
		zap.Int("alerts", triggered.Len()),
	)

	return nil
}

func logTriggered(log *zap.Logger, triggered *listings.Triggered) {
	for _, item := range triggered.Items {
		alertLog := logger.WithFields(log, logger.AlertFields(item.Alert.ID, item.Alert.Name)...)
		alertLog.Info("alert criteria", zap.String("summary", matching.Summarize(item.Alert.Criteria)))

		for _, m := range item.Matches {
			fields := logger.PropertyFields(m.Candidate.ID, m.Candidate.Name)
			if percent, ok := m.Percent(); ok {
				fields = append(fields, zap.Int("score", percent))
			}
			alertLog.Info("matched property", fields...)
		}
	}
}

func digestTriggered(ctx context.Context, cfg *AIConfig, log *zap.Logger, triggered *listings.Triggered) {
	digester, err := newDigester(ctx, cfg, log)
	if err != nil {
		log.Warn("skipping AI digest", zap.Error(err))
		return
	}

	writeDigests(ctx, digester, log, triggered)
}

func writeDigests(ctx context.Context, digester ai.Digester, log *zap.Logger, triggered *listings.Triggered) {
	for i := range triggered.Items {
		item := &triggered.Items[i]
		alertLog := logger.WithFields(log, logger.AlertFields(item.Alert.ID, item.Alert.Name)...)

		digest, err := digester.Digest(ctx, item)
		if err != nil {
			alertLog.Warn("AI digest failed", zap.Error(err))
			continue
		}

		alertLog.Info("AI digest", zap.String("digest", digest))
	}
}
