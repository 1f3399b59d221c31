package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/skills-matcher/internal/matching"
	"github.com/spigell/skills-matcher/internal/report"
)

const (
	app       = "skills-matcher"
	envPrefix = "SKILLS_MATCHER"
)

type Config struct {
	XConst       float64          `mapstructure:"x-const" validate:"gte=1"`
	Sentinels    *SentinelsConfig `mapstructure:"sentinels" validate:"required"`
	Columns      *ColumnsConfig   `mapstructure:"columns" validate:"required"`
	Requirements []any            `mapstructure:"requirements"`
	Candidates   string           `mapstructure:"candidates"`
	ExcludeFile  string           `mapstructure:"exclude-file"`
	SkillsMap    string           `mapstructure:"skills-map"`
	Exclude      *struct {
		Attributes map[string][]string `mapstructure:"attributes"`
	} `mapstructure:"exclude"`
	Sort   []report.SortKey `mapstructure:"sort" validate:"dive"`
	Output *OutputConfig    `mapstructure:"output" validate:"required"`
}

type SentinelsConfig struct {
	PresentLevelMissing string `mapstructure:"skill-present-level-missing" validate:"required"`
	AbsentLevelMissing  string `mapstructure:"skill-absent-level-missing" validate:"required,nefield=PresentLevelMissing"`
}

type ColumnsConfig struct {
	ID          string            `mapstructure:"id" validate:"required"`
	Default     []string          `mapstructure:"default"`
	Extra       []string          `mapstructure:"extra"`
	Score       string            `mapstructure:"score" validate:"required"`
	Email       string            `mapstructure:"email"`
	Headers     map[string]string `mapstructure:"headers"`
	OtherSkills string            `mapstructure:"other-skills"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" validate:"oneof=table csv json"`
	File   string `mapstructure:"file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skills-matcher ranks people by how well their skills fit a requested skill profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skills-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	defaults := matching.DefaultConfig()

	v.SetDefault("x-const", defaults.XConst)
	v.SetDefault("sentinels.skill-present-level-missing", defaults.Sentinels.PresentLevelMissing)
	v.SetDefault("sentinels.skill-absent-level-missing", defaults.Sentinels.AbsentLevelMissing)
	v.SetDefault("columns.id", "id")
	v.SetDefault("columns.default", defaults.DefaultColumns)
	v.SetDefault("columns.score", defaults.ScoreColumn)
	v.SetDefault("columns.email", "email")
	v.SetDefault("output.format", report.FormatTable)
}

func initConfig() {
	// A missing .env file is fine; values may come from the real environment.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Without an explicit --config, running on defaults and flags is allowed.
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		return nil, errors.New("config is empty")
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}
