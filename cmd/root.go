package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-rater/internal/analysis"
	"github.com/spigell/resume-rater/internal/logger"
	"github.com/spigell/resume-rater/internal/render"
	"github.com/spigell/resume-rater/internal/secrets"
	"github.com/spigell/resume-rater/internal/session"
	"github.com/spigell/resume-rater/internal/theme"
)

const (
	app       = "resume-rater"
	envPrefix = "RESUME_RATER"
	envFile   = ".env"
)

type Config struct {
	Service  *ServiceConfig `mapstructure:"service"`
	Output   string         `mapstructure:"output"`
	Theme    string         `mapstructure:"theme"`
	JobTitle string         `mapstructure:"job-title"`
	Debug    bool           `mapstructure:"debug"`
	JSON     bool           `mapstructure:"json"`
}

type ServiceConfig struct {
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user-agent"`
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"token-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-rater is a simple cli that sends a resume to an analysis service and explores the report",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-rater.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("service-url", analysis.DefaultURL, "base url of the analysis service")
	rootCmd.PersistentFlags().Duration("timeout", session.DefaultTimeout, "how long to wait for an analysis, 0 waits forever")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("service.url", rootCmd.PersistentFlags().Lookup("service-url"))
	viper.BindPFlag("service.timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	viper.SetDefault("service.user-agent", analysis.DefaultUserAgent)
	viper.SetDefault("service.token", "")
	viper.SetDefault("service.token-file", "")
	viper.SetDefault("output", string(render.FormatText))
	viper.SetDefault("theme", string(theme.Default))
	viper.SetDefault("job-title", "")
}

func initConfig() {
	// .env is optional and never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading %s: %v", envFile, err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Config needed only for analyze command now. If there is no config, we can skip initialization
	if analyzeCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			// We can't proceed if the config file parsed with error.
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Service == nil {
		config.Service = &ServiceConfig{}
	}

	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	return l
}

func resolveToken(config *Config) (string, error) {
	if config == nil || config.Service == nil {
		return "", errors.New("config is required")
	}

	return secrets.LoadOptional(secrets.Source{
		Name:  "analysis service token",
		File:  config.Service.TokenFile,
		Env:   envPrefix + "_TOKEN",
		Value: config.Service.Token,
	})
}
