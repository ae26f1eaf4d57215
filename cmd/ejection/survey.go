package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ChristopherRabotin/ejection"
	"github.com/ChristopherRabotin/ejection/catalog"
	"github.com/ChristopherRabotin/ejection/config"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"
)

var surveyCmd = &cobra.Command{
	Use:   "survey [BODY...]",
	Short: "Compute the transfers between every pair of bodies as CSV",
	Long: `survey computes the transfer between every ordered pair of the listed bodies (all the
catalog if none) orbiting the same primary, using each body's own altitude unless
transfer.parking_altitude (around the origin) or transfer.target_altitude (around the
destination) is set.`,
	RunE: runSurvey,
}

func init() {
	surveyCmd.Flags().StringP("out", "o", "", "CSV output file (default stdout)")
	rootCmd.AddCommand(surveyCmd)
}

func runSurvey(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	p, closeProvider, err := openProvider(ctx, cfg.Catalog, logger)
	if err != nil {
		return err
	}
	defer closeProvider()

	var bodies []*ejection.Body
	if len(args) == 0 {
		if bodies, err = catalog.ResolveAll(ctx, p); err != nil {
			return err
		}
	} else {
		resolver := catalog.NewResolver(p)
		for _, name := range args {
			b, err := resolver.Body(ctx, name)
			if err != nil {
				return err
			}
			bodies = append(bodies, b)
		}
	}

	entries, errs := ejection.Survey(bodies, config.AltitudeFunc(cfg.Transfer.ParkingAltitude), config.AltitudeFunc(cfg.Transfer.TargetAltitude))
	for _, err := range errs {
		// Pairs around different primaries are expected.
		if errors.Is(err, ejection.ErrInvalidConfiguration) {
			level.Debug(logger).Log("subsys", "survey", "skipped", err)
			continue
		}
		level.Warn(logger).Log("subsys", "survey", "err", err)
	}
	level.Info(logger).Log("subsys", "survey", "bodies", len(bodies), "transfers", len(entries))

	var w io.Writer = cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("survey: %w", err)
		}
		defer f.Close()
		w = f
	}
	return ejection.WriteSurveyCSV(w, entries)
}
