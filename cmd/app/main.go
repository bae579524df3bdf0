package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/exvids/internal"
	"github.com/starford/exvids/internal/videoref"
	"github.com/starford/exvids/internal/videoservice"
	pkgconfig "github.com/starford/exvids/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	loaded, err := pkgconfig.LoadOptional(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !loaded {
		slog.Debug("config file not found, using defaults", slog.String("path", configPath))
	}
	return cfg, nil
}

func options(cmd *cli.Command) ([]internal.Option, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, opts...)
}

func check(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("usage: exvids check URL", 2)
	}
	out, ok := describeCheck(cmd.Args().First())
	if !ok {
		return cli.Exit(out, 1)
	}
	fmt.Println(out)
	return nil
}

// describeCheck returns the video id of rawURL, or "reason: message" and
// false when it is rejected.
func describeCheck(rawURL string) (string, bool) {
	id, err := videoservice.CheckURL(rawURL)
	if err != nil {
		reason, _ := videoref.ReasonOf(err)
		return fmt.Sprintf("%s: %s", reason, videoservice.ReasonMessage(reason)), false
	}
	return id, true
}

func importFile(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("usage: exvids import FILE", 2)
	}
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	res, err := internal.ImportFile(ctx, cmd.Args().First(), opts...)
	if err != nil {
		return err
	}
	fmt.Printf("added %d, duplicates %d, rejected %d, invalid %d\n",
		res.Added, res.Duplicates, res.Rejected, res.Invalid)
	return nil
}

func exportFile(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("usage: exvids export FILE", 2)
	}
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	n, err := internal.ExportFile(ctx, cmd.Args().First(), opts...)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d videos to %s\n", n, cmd.Args().First())
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "exvids",
		Usage:   "Catalog of YouTube exercise videos with a web UI, JSON API and MCP tools",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the web UI and JSON API (default)",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
			},
			{
				Name:      "check",
				Usage:     "Print the video id of a URL, or why it is rejected",
				ArgsUsage: "URL",
				Action:    check,
			},
			{
				Name:      "import",
				Usage:     "Add the videos listed in a YAML file",
				ArgsUsage: "FILE",
				Action:    importFile,
			},
			{
				Name:      "export",
				Usage:     "Write all videos to a YAML file",
				ArgsUsage: "FILE",
				Action:    exportFile,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
