package main

import (
	"fmt"
	"os"

	"github.com/samvad-hq/docrelay/internal/app"
	"github.com/samvad-hq/docrelay/internal/config"
	"github.com/samvad-hq/docrelay/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cli carries state shared by subcommands once flags are parsed.
type cli struct {
	v   *viper.Viper
	app *app.App
}

func newRootCmd() *cobra.Command {
	_, root := buildCLI()
	return root
}

func buildCLI() (*cli, *cobra.Command) {
	c := &cli{v: config.New()}

	root := &cobra.Command{
		Use:           "docrelay",
		Short:         "Call the document-parse and chat-completion APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
	}

	flags := root.PersistentFlags()
	flags.String("api-key", "", "bearer token (env DOCRELAY_API_KEY)")
	flags.String("base-url", "", "API base URL")
	flags.String("log-level", "", "debug|info|warn|error")
	flags.Int64("timeout", 0, "request timeout in seconds")
	bindFlags(c.v, root, map[string]string{
		"api_key":                 "api-key",
		"base_url":                "base-url",
		"log_level":               "log-level",
		"request_timeout_seconds": "timeout",
	})

	root.AddCommand(newParseCmd(c), newChatCmd(c), newBatchCmd(c))
	return c, root
}

func (c *cli) init() error {
	cfg, err := config.Load(c.v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log.DebugObj("config loaded", "config", map[string]any{
		"base_url":        cfg.BaseURL,
		"request_timeout": cfg.RequestTimeout.String(),
		"storage_type":    cfg.StorageType,
		"sinks_file":      cfg.SinksFile,
	})

	a, err := app.New(cfg, log, os.Stdout)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

// bindFlags maps viper keys onto flag names; only flags the user set override config.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		f := cmd.PersistentFlags().Lookup(name)
		if f == nil {
			f = cmd.Flags().Lookup(name)
		}
		if f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}
