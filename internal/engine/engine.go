// Package engine wires the path filter, the walker, the classifier and the
// renderers into the tree, list and dump pipelines.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	conciter "github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"github.com/tyemirov/pj/internal/classify"
	"github.com/tyemirov/pj/internal/config"
	"github.com/tyemirov/pj/internal/filter"
	"github.com/tyemirov/pj/internal/output"
	"github.com/tyemirov/pj/internal/tokenizer"
	"github.com/tyemirov/pj/internal/types"
	"github.com/tyemirov/pj/internal/walker"
)

const (
	// DefaultMaxFiles is the number of files a dump may contain without --force.
	DefaultMaxFiles = 100
	// DefaultMaxTotalSize is the combined file size a dump may reach without --force.
	DefaultMaxTotalSize int64 = 10 * 1024 * 1024

	rootNameFallback = "."

	logMessageScanComplete = "scan complete"
	logMessageScanError    = "entry could not be read"
	logMessageClassified   = "classified"
	logFieldRoot           = "root"
	logFieldMode           = "mode"
	logFieldEntries        = "entries"
	logFieldPath           = "path"
	logFieldKind           = "kind"
)

// Config is the resolved configuration of one engine run.
type Config struct {
	// Template names a predefined rule set.
	Template string

	// Exclude holds gitignore-style rules applied after every other rule source.
	Exclude []string

	// IncludeHidden keeps dotfiles and dot-directories.
	IncludeHidden bool

	// DisableDefaults drops the built-in exclusions.
	DisableDefaults bool
	UseGitignore    bool
	UseIgnoreFile   bool

	// MaxFileSize is the content ceiling per file; zero selects classify.DefaultMaxFileSize.
	MaxFileSize int64

	// MaxFiles and MaxTotalSize bound a dump; zero disables the bound.
	MaxFiles     int
	MaxTotalSize int64

	// Force bypasses MaxFiles and MaxTotalSize.
	Force bool

	// Summary appends the filter summary to tree and list output.
	// PlainSummary drops terminal styling, for output bound to the clipboard.
	Summary      bool
	PlainSummary bool

	// TokenCounter, when set, adds a token total to the dump header.
	TokenCounter tokenizer.Counter
	TokenModel   string

	Logger *zap.Logger
}

// Run scans root and renders it in the requested mode. Errors are returned
// before anything is rendered; an empty project renders an empty tree or dump.
func Run(ctx context.Context, root string, mode types.RenderMode, cfg Config) (string, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	validatedRoot, rootError := ValidateRoot(root)
	if rootError != nil {
		return "", rootError
	}

	pathFilter, binaryFilter, filterError := buildFilters(validatedRoot, cfg)
	if filterError != nil {
		return "", filterError
	}

	scanner := walker.New(validatedRoot.AbsolutePath, pathFilter)
	var entries []types.Entry
	for entry := range scanner.Entries() {
		if contextError := ctx.Err(); contextError != nil {
			return "", contextError
		}
		if entry.Err != nil {
			logger.Warn(logMessageScanError, zap.String(logFieldPath, entry.Path), zap.Error(entry.Err))
		}
		entries = append(entries, entry)
	}
	if walkError := scanner.Err(); walkError != nil {
		return "", &ConfigError{Root: validatedRoot.DisplayPath, Err: walkError}
	}
	logger.Debug(logMessageScanComplete,
		zap.String(logFieldRoot, validatedRoot.DisplayPath),
		zap.Stringer(logFieldMode, mode),
		zap.Int(logFieldEntries, len(entries)))

	rootName := rootDisplayName(validatedRoot.AbsolutePath)
	var summary *types.ScanStats
	if cfg.Summary {
		stats := scanner.Stats()
		summary = &stats
	}

	switch mode {
	case types.RenderModeTree:
		return output.RenderTree(rootName, entries, output.TreeOptions{Summary: summary, PlainSummary: cfg.PlainSummary}), nil
	case types.RenderModeList:
		return output.RenderList(entries, output.ListOptions{Summary: summary, PlainSummary: cfg.PlainSummary}), nil
	}

	dump, dumpError := buildDump(ctx, validatedRoot, entries, binaryFilter, cfg, logger)
	if dumpError != nil {
		return "", dumpError
	}
	return output.RenderDump(dump, rootName, entries), nil
}

// ValidateRoot resolves root and checks that it is an existing directory.
func ValidateRoot(root string) (types.ValidatedPath, error) {
	displayPath := root
	if displayPath == "" {
		displayPath = rootNameFallback
	}
	absolutePath, absoluteError := filepath.Abs(displayPath)
	if absoluteError != nil {
		return types.ValidatedPath{}, &ConfigError{Root: displayPath, Err: absoluteError}
	}
	info, statError := os.Stat(absolutePath)
	if statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return types.ValidatedPath{}, &ConfigError{Root: displayPath, Err: ErrRootMissing}
		}
		return types.ValidatedPath{}, &ConfigError{Root: displayPath, Err: statError}
	}
	if !info.IsDir() {
		return types.ValidatedPath{}, &ConfigError{Root: displayPath, Err: ErrRootNotDirectory}
	}
	return types.ValidatedPath{DisplayPath: displayPath, AbsolutePath: absolutePath}, nil
}

func buildFilters(root types.ValidatedPath, cfg Config) (*filter.PathFilter, *filter.PathFilter, error) {
	projectRules, loadError := config.LoadProjectRules(root.AbsolutePath, config.ProjectRuleOptions{
		UseGitignore:  cfg.UseGitignore,
		UseIgnoreFile: cfg.UseIgnoreFile,
	})
	if loadError != nil {
		return nil, nil, &ConfigError{Root: root.DisplayPath, Err: loadError}
	}
	userRules, parseError := filter.ParseRules(cfg.Exclude)
	if parseError != nil {
		return nil, nil, &ConfigError{Root: root.DisplayPath, Err: parseError}
	}
	pathFilter, buildError := filter.Build(filter.Options{
		IncludeHidden:   cfg.IncludeHidden,
		DisableDefaults: cfg.DisableDefaults,
		Template:        cfg.Template,
		Rules:           append(projectRules.Rules, userRules...),
	})
	if buildError != nil {
		return nil, nil, &ConfigError{Root: root.DisplayPath, Err: buildError}
	}
	return pathFilter, filter.New(projectRules.BinaryRules...), nil
}

func buildDump(ctx context.Context, root types.ValidatedPath, entries []types.Entry, binaryFilter *filter.PathFilter, cfg Config, logger *zap.Logger) (types.DumpOutput, error) {
	var files []types.Entry
	var totalSize int64
	for _, entry := range entries {
		if entry.Kind != types.EntryKindFile {
			continue
		}
		files = append(files, entry)
		totalSize += entry.Size
	}
	if limitError := checkLimits(len(files), totalSize, cfg); limitError != nil {
		return types.DumpOutput{}, limitError
	}

	classifier := classify.New(cfg.MaxFileSize)
	classifications := conciter.Map(files, func(file *types.Entry) types.Classification {
		if ctx.Err() != nil {
			return types.Classification{Kind: types.ContentKindUnreadable, Reason: context.Canceled.Error()}
		}
		if file.Err != nil {
			return types.Classification{Kind: types.ContentKindUnreadable, Reason: file.Err.Error()}
		}
		if binaryFilter.Decide(file.Path, file.Kind) == filter.Exclude {
			return types.Classification{Kind: types.ContentKindBinary}
		}
		return classifier.Classify(filepath.Join(root.AbsolutePath, filepath.FromSlash(file.Path)), file.Size)
	})
	if contextError := ctx.Err(); contextError != nil {
		return types.DumpOutput{}, contextError
	}

	dump := types.DumpOutput{Root: root.DisplayPath, TotalFiles: len(files)}
	for index, file := range files {
		section := types.DumpSection{Entry: file, Classification: classifications[index]}
		logger.Debug(logMessageClassified, zap.String(logFieldPath, file.Path), zap.Stringer(logFieldKind, section.Classification.Kind))
		dump.TotalLines += section.Classification.Lines
		dump.Sections = append(dump.Sections, section)
	}

	if cfg.TokenCounter != nil {
		totalTokens, countError := tokenizer.CountSections(cfg.TokenCounter, dump.Sections)
		if countError != nil {
			return types.DumpOutput{}, fmt.Errorf("count tokens: %w", countError)
		}
		dump.TotalTokens = totalTokens
		dump.TokenModel = cfg.TokenModel
	}
	return dump, nil
}

func checkLimits(fileCount int, totalSize int64, cfg Config) error {
	if cfg.Force {
		return nil
	}
	exceedsFiles := cfg.MaxFiles > 0 && fileCount > cfg.MaxFiles
	exceedsSize := cfg.MaxTotalSize > 0 && totalSize > cfg.MaxTotalSize
	if !exceedsFiles && !exceedsSize {
		return nil
	}
	return &LimitError{Files: fileCount, MaxFiles: cfg.MaxFiles, TotalSize: totalSize, MaxTotalSize: cfg.MaxTotalSize}
}

func rootDisplayName(absolutePath string) string {
	name := filepath.Base(absolutePath)
	if name == "" || name == string(filepath.Separator) {
		return rootNameFallback
	}
	return name
}
