package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tab-backend",
	Short: "Restaurant back-office reporting service",
	Long: `tab-backend generates PDF reports from restaurant order history: daily income,
dish popularity and income per dish, each with a chart and a data table.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tab-backend.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("timezone", "UTC", "Time zone whose calendar days reports are grouped by")

	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("reporting.timezone", rootCmd.PersistentFlags().Lookup("timezone"))
}

func initConfig() {
	if cfgFile != "" {
		return
	}
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.SetConfigType("yaml")
	viper.SetConfigName(".tab-backend")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
