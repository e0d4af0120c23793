// Package commands implements the CLI commands for linkout.
package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/linkout/linkout/internal/browser"
	"github.com/linkout/linkout/internal/logger"
	"github.com/linkout/linkout/internal/ops"
	"github.com/linkout/linkout/internal/output"
	"github.com/linkout/linkout/pkg/vault"
)

var rootCmd = &cobra.Command{
	Use:   "linkout",
	Short: "Authenticated LinkedIn browsing and extraction over a controlled browser",
	Long: `Linkout drives a real browser against LinkedIn: it persists an
encrypted login session and extracts structured records from the feed,
keyword searches, profiles and posts.

Run it as an MCP stdio tool server, or invoke operations directly:

  # One-time interactive login (persists the session)
  linkout login

  # Recent feed posts
  linkout feed --count 10

  # Keyword searches
  linkout search-profiles "site reliability engineer"
  linkout search-posts "golang" --count 3

  # Single pages
  linkout profile https://www.linkedin.com/in/someone/
  linkout post https://www.linkedin.com/posts/some-activity/

  # MCP server for tool-calling clients
  linkout serve`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.linkout.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("headless", true, "run the browser headless (login always opens a window)")
	rootCmd.PersistentFlags().String("session-dir", "", "directory for encrypted session bundles (default $HOME/.linkout/sessions)")
	rootCmd.PersistentFlags().Duration("timeout", 60*time.Second, "per-navigation timeout")
	rootCmd.PersistentFlags().Duration("login-timeout", 5*time.Minute, "manual login timeout")
	rootCmd.PersistentFlags().String("format", "json", "output format: json, yaml")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("headless", rootCmd.PersistentFlags().Lookup("headless"))
	_ = viper.BindPFlag("session_dir", rootCmd.PersistentFlags().Lookup("session-dir"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("login_timeout", rootCmd.PersistentFlags().Lookup("login-timeout"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
}

func initConfig() {
	// Credentials are commonly kept in a .env next to the binary.
	_ = godotenv.Load()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".linkout")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LINKOUT")
	viper.AutomaticEnv()

	_ = viper.BindEnv("username", "LINKEDIN_USERNAME")
	_ = viper.BindEnv("password", "LINKEDIN_PASSWORD")

	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup initializes logging and builds the operation facade from the
// resolved configuration.
func setup() (*ops.Operations, error) {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	dir := viper.GetString("session_dir")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".linkout", "sessions")
	}

	v, err := vault.New(dir)
	if err != nil {
		return nil, err
	}

	browserCfg := browser.DefaultConfig()
	browserCfg.Headless = viper.GetBool("headless")
	if timeout := viper.GetDuration("timeout"); timeout > 0 {
		browserCfg.Timeout = timeout
	}
	if loginTimeout := viper.GetDuration("login_timeout"); loginTimeout > 0 {
		browserCfg.LoginTimeout = loginTimeout
	}

	return ops.New(v, ops.Config{
		Browser:  browserCfg,
		Username: viper.GetString("username"),
		Password: viper.GetString("password"),
	}), nil
}

// operationContext returns a ctx cancelled by SIGINT/SIGTERM so a
// stuck browser step can be interrupted cleanly.
func operationContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// writeResult prints one operation result in the configured format.
func writeResult(result any) error {
	writer, err := output.NewWriter(os.Stdout, output.Format(viper.GetString("format")))
	if err != nil {
		return err
	}
	return writer.Write(result)
}
