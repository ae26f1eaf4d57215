package main

import (
	"fmt"

	"github.com/ChristopherRabotin/ejection"
	"github.com/ChristopherRabotin/ejection/catalog"
	"github.com/ChristopherRabotin/ejection/config"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var transferCmd = &cobra.Command{
	Use:   "transfer ORIGIN DESTINATION",
	Short: "Compute the transfer between two bodies",
	Args:  cobra.ExactArgs(2),
	RunE:  runTransfer,
}

func init() {
	transferCmd.Flags().Float64("parking-altitude", config.BodyAltitude, "parking orbit altitude in meters (default: the origin's)")
	transferCmd.Flags().Float64("target-altitude", config.BodyAltitude, "target orbit altitude in meters (default: the destination's)")
	transferCmd.Flags().String("departure", "", "departure epoch, as a Julian date or a UTC date")
	transferCmd.Flags().Bool("geometry", false, "also print the departure geometry")
	viper.BindPFlag("transfer.parking_altitude", transferCmd.Flags().Lookup("parking-altitude"))
	viper.BindPFlag("transfer.target_altitude", transferCmd.Flags().Lookup("target-altitude"))
	rootCmd.AddCommand(transferCmd)
}

func runTransfer(cmd *cobra.Command, args []string) error {
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

	resolver := catalog.NewResolver(p)
	origin, err := resolver.Body(ctx, args[0])
	if err != nil {
		return err
	}
	destination, err := resolver.Body(ctx, args[1])
	if err != nil {
		return err
	}
	parkingAlt := config.Altitude(cfg.Transfer.ParkingAltitude, origin)
	targetAlt := config.Altitude(cfg.Transfer.TargetAltitude, destination)
	level.Debug(logger).Log("subsys", "transfer", "origin", origin.Name(), "destination", destination.Name(), "parking(m)", parkingAlt, "target(m)", targetAlt)
	xfer, err := ejection.NewCircularTransfer(origin, destination, parkingAlt, targetAlt)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%.0f km) -> %s (%.0f km)\n", origin.Name(), parkingAlt/1e3, destination.Name(), targetAlt/1e3)
	fmt.Fprintln(out, xfer)
	fmt.Fprintln(out, alignment(xfer))
	if dep, _ := cmd.Flags().GetString("departure"); dep != "" {
		departure, err := ejection.ParseEpoch(dep)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, xfer.Schedule(departure))
	}
	if geo, _ := cmd.Flags().GetBool("geometry"); geo {
		g := xfer.DepartureGeometry()
		fmt.Fprintf(out, "origin: %v\ndestination: %v\nburn: %v\n", vec(g.Origin), vec(g.Destination), vec(g.Burn))
	}
	return nil
}
