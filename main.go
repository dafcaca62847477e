package main

import (
	"context"
	"fmt"
	"os"

	"nephila/thesaurus/cmd/classes"
	"nephila/thesaurus/cmd/fetch"
	"nephila/thesaurus/cmd/interactions"
	"nephila/thesaurus/cmd/load"
	"nephila/thesaurus/cmd/lookup"
	"nephila/thesaurus/cmd/root"
	"nephila/thesaurus/cmd/schedule"
	"nephila/thesaurus/internal/config"
	"nephila/thesaurus/internal/logging"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	config.LoadEnv()

	// 2. Default logger until the configuration is read
	logging.SetDefault(logging.NewLogrusAdapter(config.GetEnv("THESAURUS_LOG_LEVEL", "info"), "text"))
	root.Log = logging.GetLogger()

	// 3. Initialize root command
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(interactions.Cmd)
	root.Cmd.AddCommand(classes.Cmd)
	root.Cmd.AddCommand(load.Cmd)
	root.Cmd.AddCommand(fetch.Cmd)
	root.Cmd.AddCommand(lookup.Cmd)
	root.Cmd.AddCommand(schedule.Cmd)
}

func main() {
	if err := root.Cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
