package graphmem

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soundprediction/graphmem"
	"github.com/soundprediction/graphmem/pkg/config"
	"github.com/soundprediction/graphmem/pkg/logger"
)

var (
	cfgFile   string
	graphPath string
	rootCmd   = &cobra.Command{
		Use:   "graphmem",
		Short: "Graphmem: persistent knowledge graph memory",
		Long: `Graphmem stores a labeled knowledge graph (entities, observations, typed
relations) in a single JSON file and exposes it through a CLI, an HTTP API,
and an MCP stdio server.

Complete documentation is available at https://github.com/soundprediction/graphmem`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.graphmem.yaml)")
	rootCmd.PersistentFlags().StringVar(&graphPath, "graph", "", "graph JSON file (default is $HOME/.graphmem/graph.json)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("storage.path", rootCmd.PersistentFlags().Lookup("graph"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".graphmem" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".graphmem")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// openStore loads config and opens the graph store all commands share.
func openStore() (*graphmem.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if graphPath != "" {
		cfg.Storage.Path = graphPath
	}
	path, err := config.ResolveGraphPath(cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}

	log := logger.NewDefaultLogger(logger.ParseLevel(cfg.Log.Level))
	store, err := graphmem.New(graphmem.Options{
		Path:                 path,
		BackupDir:            cfg.Storage.BackupDir,
		MaxBackups:           cfg.Storage.MaxBackups,
		CaseFoldObservations: cfg.Storage.CaseFoldObservations,
		Logger:               log,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open graph at %s: %w", path, err)
	}
	return store, cfg, nil
}
