// Package cli provides the command-line interface for polyforge
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	workspaceRoot string
	verbosity     string
	version       string

	flagAll        bool
	flagClean      bool
	flagTest       bool
	flagSequential bool
	flagCleanOnly  bool
	flagDocker     bool
	flagLogs       bool
	flagDryRun     bool
	flagNotify     bool
	flagServices   []string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "polyforge [services...]",
	Short: "Build a polyglot service fleet with one command",
	Long: `polyforge orchestrates the dependency install, build and test steps of a
set of independently-implemented services, each with its own toolchain.
Services run concurrently by default when the whole fleet is selected;
failures are isolated per service and consolidated into one report.`,

	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("polyforge v%s\n", version)
			return nil
		}
		return runRoot(cmd, args)
	},
}

// Execute runs the CLI
func Execute(v string) error {
	version = v

	// Initialize the root command explicitly (avoiding init()).
	initializeRootCommand()

	return rootCmd.Execute()
}

// initializeRootCommand sets up the root command and its flags.
// This replaces the init() function to make initialization explicit and testable.
func initializeRootCommand() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: polyforge.config.yaml)")
	rootCmd.PersistentFlags().StringVar(&workspaceRoot, "root", ".", "workspace root directory")
	rootCmd.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "", "log level (debug, info, warn, error)")

	rootCmd.Flags().BoolVar(&flagAll, "all", false, "select every registered service")
	rootCmd.Flags().BoolVar(&flagClean, "clean", false, "run the clean step before building")
	rootCmd.Flags().BoolVar(&flagTest, "test", false, "run the test step after building")
	rootCmd.Flags().BoolVar(&flagSequential, "sequential", false, "force single-threaded execution")
	rootCmd.Flags().BoolVar(&flagCleanOnly, "clean-only", false, "perform only the clean step, no build or test")
	rootCmd.Flags().BoolVar(&flagDocker, "docker", false, "clean-only: also purge the docker build cache")
	rootCmd.Flags().BoolVar(&flagLogs, "logs", false, "clean-only: also purge build log files")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "report intended actions without executing them")
	rootCmd.Flags().BoolVar(&flagNotify, "notify", false, "send a desktop notification when the batch finishes")
	rootCmd.Flags().StringArrayVar(&flagServices, "service", nil, "scope to a named service (repeatable)")

	rootCmd.Flags().Bool("version", false, "Print version information and quit")

	rootCmd.SetHelpFunc(helpWithRegistry)

	// Subcommands
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(workspaceRoot)
		viper.SetConfigName("polyforge.config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("POLYFORGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbosity == "debug" {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

// Helper functions

func printSuccess(message string) {
	fmt.Printf("%s %s\n", color.GreenString("[polyforge]"), message)
}

func printError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("[polyforge]"), message)
}

func printInfo(message string) {
	fmt.Printf("%s %s\n", color.CyanString("[polyforge]"), message)
}

func printWarning(message string) {
	fmt.Printf("%s %s\n", color.YellowString("[polyforge]"), message)
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(workspaceRoot, "polyforge.config.yaml")
}
