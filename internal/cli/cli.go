// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tyemirov/pj/internal/config"
	"github.com/tyemirov/pj/internal/engine"
	"github.com/tyemirov/pj/internal/filter"
	"github.com/tyemirov/pj/internal/services/clipboard"
	"github.com/tyemirov/pj/internal/tokenizer"
	"github.com/tyemirov/pj/internal/types"
	"github.com/tyemirov/pj/internal/utils"
)

const (
	treeFlagName          = "tree"
	treeFlagShorthand     = "T"
	listFlagName          = "list"
	listFlagShorthand     = "L"
	templateFlagName      = "template"
	templateFlagShorthand = "t"
	excludeFlagName       = "exclude"
	excludeFlagShorthand  = "x"
	forceFlagName         = "force"
	forceFlagShorthand    = "F"
	hiddenFlagName        = "hidden"
	noDefaultsFlagName    = "no-defaults"
	noGitignoreFlagName   = "no-gitignore"
	noIgnoreFlagName      = "no-ignore"
	maxFileSizeFlagName   = "max-file-size"
	summaryFlagName       = "summary"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	copyFlagName          = "copy"
	copyOnlyFlagName      = "copy-only"
	configFlagName        = "config"
	verboseFlagName       = "verbose"
	versionFlagName       = "version"

	versionTemplate      = "pj version: %s\n"
	defaultPath          = "."
	rootSeparator        = "\n"
	rootUse              = "pj [paths...]"
	rootShortDescription = "Dump project context with filters"
	rootLongDescription  = `Dump project context with filters.
pj walks one or more project directories, skips version control metadata,
dependency and build output, hidden files and anything matched by .gitignore,
.ignore or --exclude rules, and prints a tree of what is left followed by the
content of every text file. Use --tree or --list to print the structure only.`
	rootUsageExample = `  # Dump the current project
  pj

  # Show the tree of a Ruby project, skipping fixtures
  pj --tree --template rb -x 'spec/fixtures/'

  # List files by size and copy the list to the clipboard
  pj -L --copy ./service`

	treeFlagDescription        = "print the directory tree only"
	listFlagDescription        = "print included files sorted by size"
	templateFlagDescription    = "apply a predefined rule set (%s)"
	excludeFlagDescription     = "exclude paths matching a gitignore-style pattern; prefix with ! to re-include"
	forceFlagDescription       = "dump even when the file count or total size limit is exceeded"
	hiddenFlagDescription      = "include dotfiles and dot-directories"
	noDefaultsFlagDescription  = "disable the built-in exclusions"
	noGitignoreFlagDescription = "do not use .gitignore"
	noIgnoreFlagDescription    = "do not use .ignore"
	maxFileSizeFlagDescription = "skip the content of files larger than this many bytes"
	summaryFlagDescription     = "append the filter summary to tree and list output"
	tokensFlagDescription      = "include the token count in the dump header"
	modelFlagDescription       = "tokenizer model to use for token counting"
	copyFlagDescription        = "copy the output to the clipboard"
	copyOnlyFlagDescription    = "copy the output to the clipboard without printing it"
	configFlagDescription      = "configuration file to use instead of ./" + utils.ConfigFileName
	verboseFlagDescription     = "log debug details to stderr"
	versionFlagDescription     = "display application version"

	errorLoadConfigurationFormat = "load configuration: %w"
	errorConfiguredModeFormat    = "configuration mode: %w"
	errorTokenCounterFormat      = "initialize token counter: %w"

	logMessageRootFailed = "root failed"
	logFieldRoot         = "root"
)

// Dependencies are the collaborators of the root command. Zero values select
// the process streams, the system clipboard and the tiktoken counter.
type Dependencies struct {
	Stdout io.Writer
	Stderr io.Writer

	// Clipboard receives the output of --copy and --copy-only.
	Clipboard clipboard.Copier

	// WorkingDirectory and HomeDirectory locate the local and global
	// configuration files.
	WorkingDirectory string
	HomeDirectory    string

	NewTokenCounter func(tokenizer.Config) (tokenizer.Counter, string, error)
}

func (dependencies Dependencies) withDefaults() Dependencies {
	resolved := dependencies
	if resolved.Stdout == nil {
		resolved.Stdout = os.Stdout
	}
	if resolved.Stderr == nil {
		resolved.Stderr = os.Stderr
	}
	if resolved.Clipboard == nil {
		resolved.Clipboard = clipboard.NewService()
	}
	if resolved.NewTokenCounter == nil {
		resolved.NewTokenCounter = tokenizer.NewCounter
	}
	return resolved
}

// commandOptions stores the raw flag values.
type commandOptions struct {
	tree              bool
	list              bool
	template          string
	exclusionPatterns []string
	force             bool
	includeHidden     bool
	disableDefaults   bool
	disableGitignore  bool
	disableIgnoreFile bool
	maxFileSize       int64
	summary           bool
	tokens            tokenOptions
	copy              bool
	copyOnly          bool
	configPath        string
	verbose           bool
	showVersion       bool
}

type tokenOptions struct {
	enabled bool
	model   string
}

func (options tokenOptions) toConfig() tokenizer.Config {
	return tokenizer.Config{Model: options.model}
}

// runSettings is the outcome of layering flags over configuration files.
type runSettings struct {
	mode   types.RenderMode
	engine engine.Config
	tokens tokenOptions
	copy   config.CopySettings
}

// Execute runs the pj application with the process arguments.
func Execute() error {
	rootCommand := NewRootCommand(Dependencies{})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// NewRootCommand builds the pj command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	resolvedDependencies := dependencies.withDefaults()
	options := &commandOptions{}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runRoot(command, arguments, options, resolvedDependencies)
		},
	}
	rootCommand.SetOut(resolvedDependencies.Stdout)
	rootCommand.SetErr(resolvedDependencies.Stderr)
	addFlags(rootCommand, options)
	return rootCommand
}

func addFlags(command *cobra.Command, options *commandOptions) {
	flagSet := command.Flags()
	registerBooleanFlag(flagSet, &options.tree, treeFlagName, treeFlagShorthand, false, treeFlagDescription)
	registerBooleanFlag(flagSet, &options.list, listFlagName, listFlagShorthand, false, listFlagDescription)
	flagSet.StringVarP(&options.template, templateFlagName, templateFlagShorthand, "", fmt.Sprintf(templateFlagDescription, strings.Join(filter.TemplateNames(), ", ")))
	flagSet.StringArrayVarP(&options.exclusionPatterns, excludeFlagName, excludeFlagShorthand, nil, excludeFlagDescription)
	registerBooleanFlag(flagSet, &options.force, forceFlagName, forceFlagShorthand, false, forceFlagDescription)
	registerBooleanFlag(flagSet, &options.includeHidden, hiddenFlagName, "", false, hiddenFlagDescription)
	registerBooleanFlag(flagSet, &options.disableDefaults, noDefaultsFlagName, "", false, noDefaultsFlagDescription)
	registerBooleanFlag(flagSet, &options.disableGitignore, noGitignoreFlagName, "", false, noGitignoreFlagDescription)
	registerBooleanFlag(flagSet, &options.disableIgnoreFile, noIgnoreFlagName, "", false, noIgnoreFlagDescription)
	flagSet.Int64Var(&options.maxFileSize, maxFileSizeFlagName, 0, maxFileSizeFlagDescription)
	registerBooleanFlag(flagSet, &options.summary, summaryFlagName, "", false, summaryFlagDescription)
	registerBooleanFlag(flagSet, &options.tokens.enabled, tokensFlagName, "", false, tokensFlagDescription)
	flagSet.StringVar(&options.tokens.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerBooleanFlag(flagSet, &options.copy, copyFlagName, "", false, copyFlagDescription)
	registerBooleanFlag(flagSet, &options.copyOnly, copyOnlyFlagName, "", false, copyOnlyFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(flagSet, &options.verbose, verboseFlagName, "", false, verboseFlagDescription)
	registerBooleanFlag(flagSet, &options.showVersion, versionFlagName, "", false, versionFlagDescription)
	command.MarkFlagsMutuallyExclusive(treeFlagName, listFlagName)
}

func runRoot(command *cobra.Command, arguments []string, options *commandOptions, dependencies Dependencies) error {
	if options.showVersion {
		_, writeError := fmt.Fprintf(dependencies.Stdout, versionTemplate, utils.GetApplicationVersion())
		return writeError
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: dependencies.WorkingDirectory,
		ExplicitFilePath: options.configPath,
		HomeDirectory:    dependencies.HomeDirectory,
	})
	if configurationError != nil {
		return fmt.Errorf(errorLoadConfigurationFormat, configurationError)
	}

	logger := utils.NewApplicationLogger(applicationConfiguration.Log.LoggerOptions(options.verbose))
	defer func() { _ = logger.Sync() }()

	settings, settingsError := resolveRunSettings(command.Flags(), options, applicationConfiguration)
	if settingsError != nil {
		return settingsError
	}
	settings.engine.Logger = logger
	if settings.tokens.enabled {
		tokenCounter, tokenModel, counterError := dependencies.NewTokenCounter(settings.tokens.toConfig())
		if counterError != nil {
			return fmt.Errorf(errorTokenCounterFormat, counterError)
		}
		settings.engine.TokenCounter = tokenCounter
		settings.engine.TokenModel = tokenModel
	}

	if len(arguments) == 0 {
		arguments = []string{defaultPath}
	}
	renderedOutputs, runError := runRoots(command.Context(), deduplicateRoots(arguments), settings.mode, settings.engine)
	if runError != nil {
		return runError
	}
	combinedOutput := strings.Join(renderedOutputs, rootSeparator)

	copied := false
	if settings.copy.Copy {
		if copyError := dependencies.Clipboard.Copy(combinedOutput); copyError != nil {
			logger.Warn(fmt.Sprintf(utils.WarningClipboardFormat, copyError))
		} else {
			copied = true
		}
	}
	if settings.copy.CopyOnly && copied {
		return nil
	}
	_, writeError := io.WriteString(dependencies.Stdout, combinedOutput)
	return writeError
}

// resolveRunSettings layers explicitly set flags over configuration values.
func resolveRunSettings(flagSet *pflag.FlagSet, options *commandOptions, applicationConfiguration config.ApplicationConfiguration) (runSettings, error) {
	mode, modeError := types.ParseRenderMode(applicationConfiguration.Mode)
	if modeError != nil {
		return runSettings{}, fmt.Errorf(errorConfiguredModeFormat, modeError)
	}
	switch {
	case options.tree:
		mode = types.RenderModeTree
	case options.list:
		mode = types.RenderModeList
	case flagSet.Changed(treeFlagName) || flagSet.Changed(listFlagName):
		mode = types.RenderModeDump
	}

	template := applicationConfiguration.Template
	if flagSet.Changed(templateFlagName) {
		template = options.template
	}

	exclusionPatterns := append(append([]string{}, applicationConfiguration.Exclude...), options.exclusionPatterns...)

	maxFileSize := config.ValueOr(applicationConfiguration.MaxFileSize, 0)
	if flagSet.Changed(maxFileSizeFlagName) {
		maxFileSize = options.maxFileSize
	}

	tokens := tokenOptions{
		enabled: resolveBoolean(flagSet, tokensFlagName, options.tokens.enabled, applicationConfiguration.Tokens.Enabled, false),
		model:   tokenizer.DefaultModel,
	}
	if applicationConfiguration.Tokens.Model != "" {
		tokens.model = applicationConfiguration.Tokens.Model
	}
	if flagSet.Changed(modelFlagName) {
		tokens.model = options.tokens.model
	}

	copySettings := applicationConfiguration.CopySettings()
	if flagSet.Changed(copyFlagName) {
		copySettings.Copy = options.copy
	}
	if flagSet.Changed(copyOnlyFlagName) {
		copySettings.CopyOnly = options.copyOnly
	}
	if copySettings.CopyOnly {
		copySettings.Copy = true
	}

	return runSettings{
		mode: mode,
		engine: engine.Config{
			Template:        template,
			Exclude:         utils.DeduplicatePatterns(exclusionPatterns),
			IncludeHidden:   resolveBoolean(flagSet, hiddenFlagName, options.includeHidden, applicationConfiguration.IncludeHidden, false),
			DisableDefaults: options.disableDefaults,
			UseGitignore:    !resolveBoolean(flagSet, noGitignoreFlagName, options.disableGitignore, invert(applicationConfiguration.UseGitignore), false),
			UseIgnoreFile:   !resolveBoolean(flagSet, noIgnoreFlagName, options.disableIgnoreFile, invert(applicationConfiguration.UseIgnoreFile), false),
			MaxFileSize:     maxFileSize,
			MaxFiles:        config.ValueOr(applicationConfiguration.MaxFiles, engine.DefaultMaxFiles),
			MaxTotalSize:    config.ValueOr(applicationConfiguration.MaxTotalSize, engine.DefaultMaxTotalSize),
			Force:           options.force,
			Summary:         resolveBoolean(flagSet, summaryFlagName, options.summary, applicationConfiguration.Summary, false),
			PlainSummary:    copySettings.Copy,
		},
		tokens: tokens,
		copy:   copySettings,
	}, nil
}

func resolveBoolean(flagSet *pflag.FlagSet, flagName string, flagValue bool, configured *bool, fallback bool) bool {
	if flagSet.Changed(flagName) {
		return flagValue
	}
	return config.ValueOr(configured, fallback)
}

func invert(value *bool) *bool {
	if value == nil {
		return nil
	}
	inverted := !*value
	return &inverted
}

// runRoots renders every root concurrently and returns the outputs in argument
// order. The first failure cancels the remaining roots.
func runRoots(ctx context.Context, roots []string, mode types.RenderMode, engineConfig engine.Config) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := engineConfig.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]string, len(roots))
	group, groupContext := errgroup.WithContext(ctx)
	for index, root := range roots {
		group.Go(func() error {
			rendered, runError := engine.Run(groupContext, root, mode, engineConfig)
			if runError != nil {
				logger.Debug(logMessageRootFailed, zap.String(logFieldRoot, root), zap.Error(runError))
				return runError
			}
			results[index] = rendered
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return results, nil
}

// deduplicateRoots drops arguments that resolve to a root already listed,
// keeping the first spelling.
func deduplicateRoots(arguments []string) []string {
	seen := make(map[string]struct{}, len(arguments))
	roots := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		key := filepath.Clean(argument)
		if absolutePath, absoluteError := filepath.Abs(argument); absoluteError == nil {
			key = absolutePath
		}
		if _, duplicate := seen[key]; duplicate {
			continue
		}
		seen[key] = struct{}{}
		roots = append(roots, argument)
	}
	return roots
}
