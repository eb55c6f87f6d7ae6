package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "payroll-bridge",
	Short: "Flash to AlterData payroll bridge",
	Long:  `Reads payroll budgets from Flash and posts them as movimentos to AlterData.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig reads .env (when present), then either the environment alone (containers) or
// config.yml with environment overrides for secrets.
func loadConfig(path string) (*internal.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	var cfg *internal.Config
	if os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true" {
		cfg = internal.LoadConfigFromEnv()
	} else {
		fileCfg, err := loadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	logger.Configure(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	return cfg, nil
}

func loadConfigFile(path string) (*internal.Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// secrets and the DSN keep their conventional names
	bindings := map[string]string{
		"flash.token":     "FLASH_API_TOKEN",
		"alterdata.token": "ALTERDATA_API_TOKEN",
		"database.source": "DATABASE_URL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", ".", "directory containing config.yml")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(syncCmd)
}
