// Package config defines the configuration of the kinematics service.
package config

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/rx160/command"
	"go.viam.com/rx160/logging"
	"go.viam.com/rx160/referenceframe"
	"go.viam.com/rx160/spatialmath"
)

// DefaultBindAddress is where the service listens when no address is configured.
const DefaultBindAddress = "localhost:8080"

// A Config describes the configuration of the kinematics service.
type Config struct {
	BindAddress        string                     `json:"bind_address"`
	ModelFile          string                     `json:"model_file,omitempty"`
	ModelName          string                     `json:"model_name,omitempty"`
	Debug              bool                       `json:"debug,omitempty"`
	LogLevel           string                     `json:"log_level,omitempty"`
	LogFile            string                     `json:"log_file,omitempty"`
	HistorySize        int                        `json:"history_size"`
	SessionTimeout     goutils.Duration           `json:"session_timeout,omitempty"`
	Consistency        ConsistencyConfig          `json:"consistency"`
	Display            spatialmath.RoundingPolicy `json:"display"`
	CORSAllowedOrigins []string                   `json:"cors_allowed_origins,omitempty"`
	InterpreterURL     string                     `json:"interpreter_url,omitempty"`

	ConfigFilePath string `json:"-"`
}

// ConsistencyConfig controls the startup comparison of the closed form forward kinematics
// against the composed DH chain.
type ConsistencyConfig struct {
	Samples     int     `json:"samples"`
	ToleranceMM float64 `json:"tolerance_mm"`
	Seed        int64   `json:"seed"`
}

// Default returns the configuration used when no file is given. Fields missing from a file keep
// these values.
func Default() *Config {
	return &Config{
		BindAddress:    DefaultBindAddress,
		HistorySize:    command.DefaultHistorySize,
		SessionTimeout: goutils.Duration(command.DefaultSessionTimeout),
		Consistency: ConsistencyConfig{
			Samples:     64,
			ToleranceMM: 1e-6,
			Seed:        1,
		},
		Display: spatialmath.DefaultRoundingPolicy,
	}
}

// Validate returns every problem with the config at once.
func (c *Config) Validate() error {
	var err error
	if c.BindAddress == "" {
		err = multierr.Append(err, errors.New(`"bind_address" is required`))
	}
	if c.HistorySize <= 0 {
		err = multierr.Append(err, errors.Errorf(`"history_size" must be positive, got %d`, c.HistorySize))
	}
	if c.SessionTimeout <= 0 {
		err = multierr.Append(err, errors.Errorf(`"session_timeout" must be positive, got %v`, time.Duration(c.SessionTimeout)))
	}
	if c.Consistency.Samples < 0 {
		err = multierr.Append(err, errors.Errorf(`"consistency.samples" must not be negative, got %d`, c.Consistency.Samples))
	}
	if c.Consistency.ToleranceMM <= 0 {
		err = multierr.Append(err, errors.Errorf(`"consistency.tolerance_mm" must be positive, got %g`, c.Consistency.ToleranceMM))
	}
	if c.Display.Decimals < 0 || c.Display.Decimals > 15 {
		err = multierr.Append(err, errors.Errorf(`"display.decimals" must be within [0, 15], got %d`, c.Display.Decimals))
	}
	if c.Display.ZeroThreshold < 0 {
		err = multierr.Append(err, errors.Errorf(`"display.zero_threshold" must not be negative, got %g`, c.Display.ZeroThreshold))
	}
	if c.LogLevel != "" {
		if _, lerr := logging.LevelFromString(c.LogLevel); lerr != nil {
			err = multierr.Append(err, errors.Wrap(lerr, `"log_level"`))
		}
	}
	return err
}

// Level returns the log level the config asks for. Debug wins over LogLevel.
func (c *Config) Level() logging.Level {
	if c.Debug {
		return logging.DEBUG
	}
	if level, err := logging.LevelFromString(c.LogLevel); err == nil && c.LogLevel != "" {
		return level
	}
	return logging.INFO
}

// LoadModel returns the configured arm model: the model file when one is set, otherwise the
// embedded default. ModelName, when set, renames it.
func (c *Config) LoadModel() (*referenceframe.Model, error) {
	if c.ModelFile == "" {
		model, err := referenceframe.DefaultModel()
		if err != nil {
			return nil, err
		}
		if c.ModelName != "" {
			model.Name = c.ModelName
		}
		return model, nil
	}
	return referenceframe.ParseModelJSONFile(c.ModelFile, c.ModelName)
}
