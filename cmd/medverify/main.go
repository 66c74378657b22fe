// Command medverify is the operator CLI for the verification registry.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"medicine-verify/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "medverify",
	Short:         "Manage and query the medicine verification registry",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd, importCatalogueCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.Server.ConfigureLogging()
	return cfg, nil
}
