package main

import (
	"errors"
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/urfave/cli/v2"

	"github.com/hbomb79/ClipSheet/internal"
	"github.com/hbomb79/ClipSheet/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "clipsheet",
		Usage: "scan a directory tree for videos and render a PDF report of metadata and thumbnails",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML configuration file",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "override the number of concurrent extraction workers",
			},
			&cli.BoolFlag{
				Name:  "resume",
				Usage: "skip files already recorded in the journal of an interrupted run",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "emit verbose logging",
			},
		},
		ArgsUsage: "<directory>",
		Action:    runScan,
		Commands: []*cli.Command{
			{
				Name:      "clean",
				Usage:     "delete the thumbnail directories and journal left behind by a previous run",
				ArgsUsage: "<directory>",
				Action:    runClean,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "clipsheet: %v\n", err)
		os.Exit(1)
	}
}

func runScan(ctx *cli.Context) error {
	rootDir, err := rootDirArg(ctx)
	if err != nil {
		return err
	}

	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	return internal.New(config).Run(rootDir, ctx.Bool("resume"))
}

func runClean(ctx *cli.Context) error {
	rootDir, err := rootDirArg(ctx)
	if err != nil {
		return err
	}

	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	return internal.New(config).Clean(rootDir)
}

func rootDirArg(ctx *cli.Context) (string, error) {
	if ctx.Args().Len() != 1 {
		return "", errors.New("expected exactly one argument: the directory to scan")
	}

	rootDir, err := homedir.Expand(ctx.Args().First())
	if err != nil {
		return "", fmt.Errorf("cannot expand path '%s': %w", ctx.Args().First(), err)
	}

	info, err := os.Stat(rootDir)
	if err != nil {
		return "", fmt.Errorf("cannot access '%s': %w", rootDir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("'%s' is not a directory", rootDir)
	}

	return rootDir, nil
}

func loadConfig(ctx *cli.Context) (*internal.ClipSheetConfig, error) {
	if ctx.Bool("verbose") {
		logger.SetMinLoggingLevel(logger.VERBOSE.Level())
	}

	config := &internal.ClipSheetConfig{}
	if configPath := ctx.String("config"); configPath != "" {
		expanded, err := homedir.Expand(configPath)
		if err != nil {
			return nil, fmt.Errorf("cannot expand config path '%s': %w", configPath, err)
		}
		if err := config.LoadFromFile(expanded); err != nil {
			return nil, err
		}
	} else if err := config.LoadFromEnv(); err != nil {
		return nil, err
	}

	if workers := ctx.Int("workers"); workers > 0 {
		config.Concurrent.ExtractionWorkers = workers
	}

	return config, nil
}
