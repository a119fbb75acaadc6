// Package config loads pipeline settings from a file, CONNECTOME_ environment
// variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dd0wney/connectome-metrics/pkg/cleaning"
	"github.com/dd0wney/connectome-metrics/pkg/export"
	"github.com/dd0wney/connectome-metrics/pkg/logging"
	"github.com/dd0wney/connectome-metrics/pkg/validation"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// CONNECTOME_PIPELINE_WEIGHT_THRESHOLD
const EnvPrefix = "CONNECTOME"

// Config holds all application configuration.
type Config struct {
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Export   ExportConfig   `mapstructure:"export"`
	Log      LogConfig      `mapstructure:"log"`
}

type PipelineConfig struct {
	WeightThreshold float64  `mapstructure:"weight_threshold"`
	MergePolicy     string   `mapstructure:"merge_policy"`
	StripAttributes []string `mapstructure:"strip_attributes"`
}

type AnalysisConfig struct {
	Workers int `mapstructure:"workers"`
	TopN    int `mapstructure:"top_n"` // rows in the CLI ranking tables
}

type ExportConfig struct {
	SizeMetric string  `mapstructure:"size_metric"`
	SizeScale  float64 `mapstructure:"size_scale"`
	GroupBy    string  `mapstructure:"group_by"`
	Compress   bool    `mapstructure:"compress"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SetDefaults registers every key with its default on v. Keys unknown to v
// are not picked up from the environment on Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.weight_threshold", cleaning.DefaultWeightThreshold)
	v.SetDefault("pipeline.merge_policy", cleaning.MergeFirst.String())
	v.SetDefault("pipeline.strip_attributes", []string{"neurotransmitter"})
	v.SetDefault("analysis.workers", 4)
	v.SetDefault("analysis.top_n", 10)
	v.SetDefault("export.size_metric", string(export.SizeBetweenness))
	v.SetDefault("export.size_scale", 100.0)
	v.SetDefault("export.group_by", string(export.GroupByCommunity))
	v.SetDefault("export.compress", false)
	v.SetDefault("log.level", "info")
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	cfg, err := Decode(newViper())
	if err != nil {
		panic(fmt.Sprintf("config defaults do not decode: %v", err))
	}
	return cfg
}

// Load reads configuration from path, if non-empty, and the environment,
// then validates it.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg, err := Decode(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode unmarshals the settings held by v without validating them
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config cannot be nil")
	}

	cv := validation.NewConfigValidator("pipeline")
	cv.NonNegativeFloat("weight_threshold", c.Pipeline.WeightThreshold).
		Custom("merge_policy", func() error {
			_, err := cleaning.ParseMergePolicy(c.Pipeline.MergePolicy)
			return err
		}).
		Each("strip_attributes", c.Pipeline.StripAttributes, validation.ValidateAttributeKey)

	av := validation.NewConfigValidator("analysis")
	av.RangeInt("workers", c.Analysis.Workers, 1, 64).
		Positive("top_n", c.Analysis.TopN)

	ev := validation.NewConfigValidator("export")
	ev.Custom("size_metric", func() error {
		_, err := export.ParseSizeMetric(c.Export.SizeMetric)
		return err
	}).
		PositiveFloat("size_scale", c.Export.SizeScale).
		Custom("group_by", func() error {
			_, err := export.ParseGroupBy(c.Export.GroupBy)
			return err
		})

	lv := validation.NewConfigValidator("log")
	lv.OneOf("level", strings.ToLower(c.Log.Level), []string{"debug", "info", "warn", "warning", "error"})

	return errors.Join(cv.Validate(), av.Validate(), ev.Validate(), lv.Validate())
}

// CleaningOptions converts the pipeline section. The config must be valid.
func (c *Config) CleaningOptions(logger logging.Logger) (cleaning.Options, error) {
	policy, err := cleaning.ParseMergePolicy(c.Pipeline.MergePolicy)
	if err != nil {
		return cleaning.Options{}, err
	}
	strip := c.Pipeline.StripAttributes
	if strip == nil {
		strip = []string{}
	}
	return cleaning.Options{
		WeightThreshold: c.Pipeline.WeightThreshold,
		MergePolicy:     policy,
		StripAttributes: strip,
		Logger:          logger,
	}, nil
}

// ExportOptions converts the export section
func (c *Config) ExportOptions() (export.Options, error) {
	metric, err := export.ParseSizeMetric(c.Export.SizeMetric)
	if err != nil {
		return export.Options{}, err
	}
	groupBy, err := export.ParseGroupBy(c.Export.GroupBy)
	if err != nil {
		return export.Options{}, err
	}
	return export.Options{
		SizeMetric: metric,
		SizeScale:  c.Export.SizeScale,
		GroupBy:    groupBy,
	}, nil
}

// LogLevel returns the configured level
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}
