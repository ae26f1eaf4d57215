package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/ChristopherRabotin/ejection/catalog"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the body catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the bodies of the configured catalog",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy a TOML catalog into a SQL database",
	Long: `import copies every body of a TOML catalog (the built-in solar system by default)
into the bodies table of a SQLite or MySQL database, creating the table if needed.`,
	Args: cobra.NoArgs,
	RunE: runCatalogImport,
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the configured catalog as TOML",
	Args:  cobra.NoArgs,
	RunE:  runCatalogExport,
}

func init() {
	catalogImportCmd.Flags().String("from", "", "TOML catalog to import (default built-in solar system)")
	catalogImportCmd.Flags().String("to-driver", "sqlite", "sqlite or mysql")
	catalogImportCmd.Flags().String("to-dsn", "ejection.db", "SQLite file or MySQL DSN")
	catalogCmd.AddCommand(catalogListCmd, catalogImportCmd, catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	p, closeProvider, err := openProvider(cmd.Context(), cfg.Catalog, logger)
	if err != nil {
		return err
	}
	defer closeProvider()
	records, err := catalog.All(cmd.Context(), p)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tHOST\tMASS (kg)\tRADIUS (km)\tAPOAPSIS (km)\tPERIAPSIS (km)\tALTITUDE (km)")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%.4g\t%.1f\t%.0f\t%.0f\t%.0f\n", r.Name, r.Host, r.Mass, r.Radius/1e3, r.Apoapsis/1e3, r.Periapsis/1e3, r.Altitude/1e3)
	}
	return tw.Flush()
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	_, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	from, _ := cmd.Flags().GetString("from")
	driver, _ := cmd.Flags().GetString("to-driver")
	dsn, _ := cmd.Flags().GetString("to-dsn")
	if driver != "sqlite" && driver != "mysql" {
		return fmt.Errorf("unsupported driver %q", driver)
	}
	src, err := catalog.NewTOMLProvider(from)
	if err != nil {
		return err
	}
	dst, err := catalog.OpenSQL(ctx, driver, dsn)
	if err != nil {
		return err
	}
	defer dst.Close()
	if err := dst.Migrate(ctx); err != nil {
		return err
	}
	n, err := dst.Import(ctx, src)
	if err != nil {
		return err
	}
	level.Info(logger).Log("subsys", "catalog", "message", "imported", "bodies", n, "driver", driver)
	return nil
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	p, closeProvider, err := openProvider(cmd.Context(), cfg.Catalog, logger)
	if err != nil {
		return err
	}
	defer closeProvider()
	records, err := catalog.All(cmd.Context(), p)
	if err != nil {
		return err
	}
	return catalog.WriteTOML(cmd.OutOrStdout(), records)
}
