package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/visualrobotics/mrp/pkg/infrastructure/config"
	"github.com/visualrobotics/mrp/pkg/infrastructure/logging"
	"github.com/visualrobotics/mrp/pkg/interfaces/cli/commands"
	"github.com/visualrobotics/mrp/pkg/interfaces/cli/output"
)

// cli carries the configuration resolved before any subcommand runs
type cli struct {
	v      *viper.Viper
	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{v: viper.New(), logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "mrp",
		Short:         "Stock, bundling and demand analysis for the Visual Robotics factory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.v)
			if err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			c.cfg, c.logger = cfg, logger
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("db", "", "database file (default VR-Factory.db, env MRP_DB_PATH)")
	flags.String("report-dir", "", "directory for generated reports (default: database directory)")
	flags.String("sub-prefix", "", "SKU prefix of sub-assemblies (default SUB-)")
	flags.String("log-level", "", "log level: debug, info, warn, error (default info)")
	flags.String("log-format", "", "log format: console or json (default console)")
	for key, flag := range map[string]string{
		"DB_PATH":    "db",
		"REPORT_DIR": "report-dir",
		"SUB_PREFIX": "sub-prefix",
		"LOG_LEVEL":  "log-level",
		"LOG_FORMAT": "log-format",
	} {
		_ = c.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		c.partsCommand(),
		c.showCommand(),
		c.updateStockCommand(),
		c.reportCommand(),
		c.bundleCommand(),
		c.demandCommand(),
		c.historyCommand(),
		c.importCommand(),
		c.exportCommand(),
		c.checkCommand(),
		c.generateCommand(),
	)
	return root
}

// executor is implemented by every command object
type executor interface {
	Execute(ctx context.Context) error
}

// withApp opens the database for one command run
func (c *cli) withApp(build func(app *commands.App, args []string) executor) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := commands.OpenApp(*c.cfg, c.logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(); err != nil {
				c.logger.Warn().Err(err).Msg("failed to close database")
			}
		}()
		app.Out = cmd.OutOrStdout()
		app.In = cmd.InOrStdin()

		return build(app, args).Execute(cmd.Context())
	}
}

func (c *cli) partsCommand() *cobra.Command {
	var config commands.PartsConfig
	cmd := &cobra.Command{
		Use:   "parts",
		Short: "List part SKUs and descriptions",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(app *commands.App, _ []string) executor {
			return commands.NewPartsCommand(app, config)
		}),
	}
	cmd.Flags().BoolVar(&config.SubAssemblies, "sub", false, "only list sub-assemblies")
	return cmd
}

func (c *cli) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show SKU",
		Short: "Show price and stock of a part",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(app *commands.App, args []string) executor {
			return commands.NewShowCommand(app, args[0])
		}),
	}
}

func (c *cli) updateStockCommand() *cobra.Command {
	var config commands.UpdateStockConfig
	cmd := &cobra.Command{
		Use:   "update-stock SKU",
		Short: "Set the price and stock of a part",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(app *commands.App, args []string) executor {
			config.SKU = args[0]
			return commands.NewUpdateStockCommand(app, config)
		}),
	}
	cmd.Flags().StringVar(&config.Price, "price", "", "unit price")
	cmd.Flags().Int64Var(&config.Stock, "stock", 0, "units on hand")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("stock")
	return cmd
}

func (c *cli) reportCommand() *cobra.Command {
	var config commands.ReportConfig
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print or write the stock report",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(app *commands.App, _ []string) executor {
			return commands.NewReportCommand(app, config)
		}),
	}
	addFormatFlags(cmd, &config.Format, &config.OutputPath)
	return cmd
}

func (c *cli) bundleCommand() *cobra.Command {
	var config commands.BundleConfig
	cmd := &cobra.Command{
		Use:   "bundle SKU",
		Short: "Build one unit of a part from its components",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(app *commands.App, args []string) executor {
			config.SKU = args[0]
			return commands.NewBundleCommand(app, config)
		}),
	}
	cmd.Flags().BoolVarP(&config.Yes, "yes", "y", false, "bundle without asking for confirmation")
	return cmd
}

func (c *cli) demandCommand() *cobra.Command {
	var config commands.DemandConfig
	cmd := &cobra.Command{
		Use:   "demand SKU",
		Short: "List the components needed to have a quantity of a part on hand",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(app *commands.App, args []string) executor {
			config.SKU = args[0]
			return commands.NewDemandCommand(app, config)
		}),
	}
	cmd.Flags().Int64VarP(&config.Quantity, "qty", "q", 0, "desired quantity (1-9999)")
	_ = cmd.MarkFlagRequired("qty")
	addFormatFlags(cmd, &config.Format, &config.OutputPath)
	return cmd
}

func (c *cli) historyCommand() *cobra.Command {
	var config commands.HistoryConfig
	cmd := &cobra.Command{
		Use:   "history SKU",
		Short: "Show the stock movements of a part, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(app *commands.App, args []string) executor {
			config.SKU = args[0]
			return commands.NewHistoryCommand(app, config)
		}),
	}
	cmd.Flags().IntVar(&config.Limit, "limit", 20, "maximum number of movements, 0 for all")
	return cmd
}

func (c *cli) importCommand() *cobra.Command {
	var config commands.ImportConfig
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load parts and BOM lines from CSV files",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(app *commands.App, _ []string) executor {
			return commands.NewImportCommand(app, config)
		}),
	}
	cmd.Flags().StringVar(&config.PartsFile, "parts", "", "parts CSV (sku,description,price,stock)")
	cmd.Flags().StringVar(&config.BOMFile, "bom", "", "BOM CSV (parent_sku,sku,quantity)")
	return cmd
}

func (c *cli) exportCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all parts and BOM lines as CSV files",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(app *commands.App, _ []string) executor {
			return commands.NewExportCommand(app, dir)
		}),
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	return cmd
}

func (c *cli) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the stored BOM for cycles, duplicates and unknown parts",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(app *commands.App, _ []string) executor {
			return commands.NewCheckCommand(app)
		}),
	}
}

func (c *cli) generateCommand() *cobra.Command {
	var config commands.GenerateConfig
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random factory dataset as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.SubPrefix = c.cfg.SubPrefix
			config.Out = cmd.OutOrStdout()
			return commands.NewGenerateCommand(config).Execute(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&config.Items, "items", 100, "number of parts")
	cmd.Flags().IntVar(&config.MaxDepth, "depth", 4, "maximum BOM depth")
	cmd.Flags().IntVar(&config.MaxStock, "max-stock", 100, "upper bound for raw material stock")
	cmd.Flags().StringVar(&config.OutputDir, "out", ".", "output directory")
	cmd.Flags().Int64Var(&config.Seed, "seed", 0, "random seed, 0 for a time based seed")
	cmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "verbose output")
	return cmd
}

func addFormatFlags(cmd *cobra.Command, format, out *string) {
	cmd.Flags().StringVarP(format, "format", "f", "text",
		fmt.Sprintf("output format: %s", strings.Join(output.Formats, ", ")))
	cmd.Flags().StringVarP(out, "out", "o", "", "write to this file instead of stdout")
}
