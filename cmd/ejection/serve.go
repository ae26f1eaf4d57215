package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ChristopherRabotin/ejection/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve transfers and the catalog over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Bool("watch", false, "reload the TOML catalog when it changes")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("catalog.watch", serveCmd.Flags().Lookup("watch"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	p, closeProvider, err := openProvider(ctx, cfg.Catalog, logger)
	if err != nil {
		return err
	}
	defer closeProvider()
	return server.New(p, cfg.Transfer, cfg.Server, logger).ListenAndServe(ctx, cfg.Server.Addr)
}
