package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/tyemirov/pj/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user's home directory for the global file.
	HomeDirectory string
}

// ApplicationConfiguration holds defaults read from .pj.yaml files. Pointer
// fields distinguish an unset key from an explicit zero value.
type ApplicationConfiguration struct {
	Mode          string             `mapstructure:"mode"`
	Exclude       []string           `mapstructure:"exclude"`
	Template      string             `mapstructure:"template"`
	IncludeHidden *bool              `mapstructure:"include_hidden"`
	UseGitignore  *bool              `mapstructure:"use_gitignore"`
	UseIgnoreFile *bool              `mapstructure:"use_ignore"`
	MaxFileSize   *int64             `mapstructure:"max_file_size"`
	MaxFiles      *int               `mapstructure:"max_files"`
	MaxTotalSize  *int64             `mapstructure:"max_total_size"`
	Summary       *bool              `mapstructure:"summary"`
	Copy          *bool              `mapstructure:"copy"`
	CopyOnly      *bool              `mapstructure:"copy_only"`
	Tokens        TokenConfiguration `mapstructure:"tokens"`
	Log           LogConfiguration   `mapstructure:"log"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LogConfiguration configures the optional rotated log file.
type LogConfiguration struct {
	Filename   string `mapstructure:"filename"`
	Level      string `mapstructure:"level"`
	MaxSize    *int   `mapstructure:"max_size"`
	MaxBackups *int   `mapstructure:"max_backups"`
	MaxAge     *int   `mapstructure:"max_age"`
	Compress   *bool  `mapstructure:"compress"`
}

// LoadApplicationConfiguration loads ~/.pj/.pj.yaml and then the working
// directory's .pj.yaml (or the explicit path), local values overriding global
// ones. Missing files are not an error; an explicit path that is missing is.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Exclude = utils.DeduplicatePatterns(merged.Exclude)
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver. Exclusion lists are concatenated so
// local patterns are evaluated after, and therefore override, global ones.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Mode != "" {
		result.Mode = override.Mode
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append(append([]string{}, config.Exclude...), override.Exclude...)
	}
	if override.Template != "" {
		result.Template = override.Template
	}
	result.IncludeHidden = overrideValue(result.IncludeHidden, override.IncludeHidden)
	result.UseGitignore = overrideValue(result.UseGitignore, override.UseGitignore)
	result.UseIgnoreFile = overrideValue(result.UseIgnoreFile, override.UseIgnoreFile)
	result.MaxFileSize = overrideValue(result.MaxFileSize, override.MaxFileSize)
	result.MaxFiles = overrideValue(result.MaxFiles, override.MaxFiles)
	result.MaxTotalSize = overrideValue(result.MaxTotalSize, override.MaxTotalSize)
	result.Summary = overrideValue(result.Summary, override.Summary)
	result.Copy = overrideValue(result.Copy, override.Copy)
	result.CopyOnly = overrideValue(result.CopyOnly, override.CopyOnly)
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Log = result.Log.merge(override.Log)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	result.Enabled = overrideValue(result.Enabled, override.Enabled)
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (config LogConfiguration) merge(override LogConfiguration) LogConfiguration {
	result := config
	if override.Filename != "" {
		result.Filename = override.Filename
	}
	if override.Level != "" {
		result.Level = override.Level
	}
	result.MaxSize = overrideValue(result.MaxSize, override.MaxSize)
	result.MaxBackups = overrideValue(result.MaxBackups, override.MaxBackups)
	result.MaxAge = overrideValue(result.MaxAge, override.MaxAge)
	result.Compress = overrideValue(result.Compress, override.Compress)
	return result
}

// CopySettings captures clipboard behaviour.
type CopySettings struct {
	Copy     bool
	CopyOnly bool
}

// CopySettings resolves the clipboard keys; copy_only implies copy.
func (config ApplicationConfiguration) CopySettings() CopySettings {
	settings := CopySettings{
		Copy:     ValueOr(config.Copy, false),
		CopyOnly: ValueOr(config.CopyOnly, false),
	}
	if settings.CopyOnly {
		settings.Copy = true
	}
	return settings
}

// LoggerOptions converts the log section into logger options.
func (config LogConfiguration) LoggerOptions(verbose bool) utils.LoggerOptions {
	return utils.LoggerOptions{
		Verbose: verbose,
		Level:   config.Level,
		File: utils.LogFileOptions{
			Filename:   config.Filename,
			MaxSize:    ValueOr(config.MaxSize, 0),
			MaxBackups: ValueOr(config.MaxBackups, 0),
			MaxAge:     ValueOr(config.MaxAge, 0),
			Compress:   ValueOr(config.Compress, false),
		},
	}
}

func overrideValue[T any](current *T, override *T) *T {
	if override == nil {
		return current
	}
	cloned := *override
	return &cloned
}

// ValueOr dereferences value, returning fallback when it is unset.
func ValueOr[T any](value *T, fallback T) T {
	if value == nil {
		return fallback
	}
	return *value
}
