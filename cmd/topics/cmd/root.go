package cmd

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"topics/internal/config"
)

var (
	cfgPath string
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:          "topics",
	Short:        "topics - categorise short posts by word-embedding distance",
	Long:         "Fetch posts, extract key phrases and label each post with the nearest category.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file (uses ./config.yaml or ~/.config/topics/config.yaml if not provided)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress diagnostic logging")
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func loadConfig() (*config.AppConfig, error) {
	if cfgPath == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(cfgPath)
}

func newLogger() *log.Logger {
	if quiet {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "topics: ", log.LstdFlags)
}
