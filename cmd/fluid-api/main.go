package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/PabloGalante/fluid101/internal/config"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "fluid-api",
	Short: "Fluid 101 API - CFD assistant backend",
	Long: `fluid-api serves the Fluid 101 assistant: chat with a CFD companion,
learning resources, a pressure map analyzer and the voice panel with notes.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("port", "", "HTTP port [default: 8080]")
	flags.String("mode", "", "Run mode (local|cloud) [default: local]")
	flags.String("llm-provider", "", "Completion provider (mock|gemini|openai)")
	flags.String("log-level", "", "Log level (debug|info|warn|error) [default: info]")
	flags.String("env-file", ".env", "Optional .env file loaded before reading the environment")

	for key, flag := range map[string]string{
		"port":         "port",
		"mode":         "mode",
		"llm_provider": "llm-provider",
		"log_level":    "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
			os.Exit(1)
		}
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		config.LoadDotEnv(envFile)
	}

	config.SetDefaults(v)
	return config.Load(v)
}
