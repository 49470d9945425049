package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/command"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/paths"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyDataDir         = "data_dir"
	cfgKeyModel           = "model"
	cfgKeyLogLevel        = "log_level"
	cfgKeyArchive         = "archive"
	cfgKeyArchiveDir      = "archive_dir"
	cfgKeyMetricsFile     = "metrics_file"
	cfgKeyMillimetreScale = "millimetre_scale"
	cfgKeyGenericOwners   = "generic_owners"

	defaultLogLevel = "info"
)

// genericOwner is one entry of the generic_owners table. A list is used
// instead of a map because configuration keys are case-insensitive while
// parameter type short names are not.
type genericOwner struct {
	ParameterType string `mapstructure:"parameter_type" yaml:"parameter_type"`
	Domain        string `mapstructure:"domain" yaml:"domain"`
}

// settings is the resolved content of config.yaml.
type settings struct {
	DataDir         string
	Model           string
	LogLevel        string
	Archive         string
	ArchiveDir      string
	MetricsFile     string
	MillimetreScale string
	GenericOwners   map[string]string
}

// commandOptions maps the settings onto the command engine options.
func (s settings) commandOptions() command.Options {
	return command.Options{
		GenericOwners:   s.GenericOwners,
		MillimetreScale: s.MillimetreScale,
	}
}

// loadConfig reads config.yaml from configDir using Viper. A missing file
// is not an error.
func loadConfig(configDir string) (settings, error) {
	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyMillimetreScale, command.DefaultMillimetreScale)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var owners []genericOwner
	if err := v.UnmarshalKey(cfgKeyGenericOwners, &owners); err != nil {
		return settings{}, fmt.Errorf("read config %s: %w", cfgKeyGenericOwners, err)
	}
	s := settings{
		DataDir:         v.GetString(cfgKeyDataDir),
		Model:           v.GetString(cfgKeyModel),
		LogLevel:        v.GetString(cfgKeyLogLevel),
		Archive:         v.GetString(cfgKeyArchive),
		ArchiveDir:      v.GetString(cfgKeyArchiveDir),
		MetricsFile:     v.GetString(cfgKeyMetricsFile),
		MillimetreScale: v.GetString(cfgKeyMillimetreScale),
	}
	if len(owners) > 0 {
		s.GenericOwners = make(map[string]string, len(owners))
		for _, o := range owners {
			s.GenericOwners[o.ParameterType] = o.Domain
		}
	}
	return s, nil
}

// configFile is the structure written to config.yaml by init.
type configFile struct {
	DataDir         string         `yaml:"data_dir,omitempty"`
	Model           string         `yaml:"model,omitempty"`
	LogLevel        string         `yaml:"log_level"`
	Archive         string         `yaml:"archive"`
	ArchiveDir      string         `yaml:"archive_dir,omitempty"`
	MetricsFile     string         `yaml:"metrics_file,omitempty"`
	MillimetreScale string         `yaml:"millimetre_scale"`
	GenericOwners   []genericOwner `yaml:"generic_owners"`
}

func defaultConfigFile(dataDir, model string) configFile {
	names := make([]string, 0, len(command.DefaultGenericOwners))
	for name := range command.DefaultGenericOwners {
		names = append(names, name)
	}
	sort.Strings(names)
	owners := make([]genericOwner, 0, len(names))
	for _, name := range names {
		owners = append(owners, genericOwner{ParameterType: name, Domain: command.DefaultGenericOwners[name]})
	}
	return configFile{
		DataDir:         dataDir,
		Model:           model,
		LogLevel:        defaultLogLevel,
		MillimetreScale: command.DefaultMillimetreScale,
		GenericOwners:   owners,
	}
}

// writeConfigIfMissing creates config.yaml with cfg if the file does not
// exist. It reports whether the file was written.
func writeConfigIfMissing(configDir string, cfg configFile) (bool, error) {
	path := filepath.Join(configDir, paths.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
