package main

import (
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TEENet-io/bridge-federator/cmd"
	"github.com/TEENet-io/bridge-federator/logconfig"
)

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:   "federator",
		Short: "Cross chain bridge federator",
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run passes on a schedule and serve the http reporter",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cmd.StartFederatorAndWait(cfg)
			return nil
		},
	}

	onceCmd = &cobra.Command{
		Use:   "once",
		Short: "Run a single pass and exit",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			processed, err := cmd.RunOnce(cfg)
			if err != nil {
				logger.Fatalf("federator pass failed: %v", err)
			}
			logger.WithField("processed", processed).Info("federator pass done")
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file (env "+cmd.ENV_CONFIG_FILE_PATH+")")
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindEnv("config", cmd.ENV_CONFIG_FILE_PATH)

	rootCmd.AddCommand(runCmd, onceCmd)
}

func loadConfig() (*cmd.FederatorConfig, error) {
	// Tool to read environment variables
	viper.AutomaticEnv()

	file := viper.GetString("config")
	if file != "" {
		if !cmd.FileExists(file) {
			return nil, fmt.Errorf("federator configuration file not found: %s", file)
		}
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading configuration file: %w", err)
		}
	}

	if err := logconfig.ConfigLogger(viper.GetString(cmd.KEY_LOG_LEVEL)); err != nil {
		return nil, err
	}

	return cmd.LoadFederatorConfig(viper.GetViper())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
