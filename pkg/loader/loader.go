// Package loader reads GitHub configuration files from disk, detects what
// kind of file each one is, and decodes it into the matching typed model.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/actionspec/actionspec/pkg/action"
	"github.com/actionspec/actionspec/pkg/dependabot"
	"github.com/actionspec/actionspec/pkg/workflow"
)

// Kind identifies what a configuration file is.
type Kind string

const (
	KindWorkflow   Kind = "workflow"
	KindAction     Kind = "action"
	KindDependabot Kind = "dependabot"
)

// File is one decoded configuration file. Exactly one of the typed fields
// is set, matching Kind.
type File struct {
	Path string
	Kind Kind

	Workflow   *workflow.Workflow
	Action     *action.Action
	Dependabot *dependabot.Dependabot
}

// DetectKind classifies a path by its file name: dependabot.yml and
// action.yml (and their .yaml spellings) are recognized directly, and any
// other YAML file is treated as a workflow.
func DetectKind(path string) (Kind, error) {
	base := filepath.Base(path)
	switch base {
	case "dependabot.yml", "dependabot.yaml":
		return KindDependabot, nil
	case "action.yml", "action.yaml":
		return KindAction, nil
	}
	if strings.HasSuffix(base, ".yml") || strings.HasSuffix(base, ".yaml") {
		return KindWorkflow, nil
	}
	return "", fmt.Errorf("not a YAML configuration file: %s", path)
}

// Loader reads and decodes configuration files.
type Loader struct {
	logger  zerolog.Logger
	cache   map[string]*File
	mu      sync.RWMutex
	watcher *fsnotify.Watcher
}

// NewLoader creates a new loader.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{
		logger: logger.With().Str("component", "loader").Logger(),
		cache:  make(map[string]*File),
	}
}

// LoadFromPaths loads configuration files from a list of file or directory
// paths.
func (l *Loader) LoadFromPaths(ctx context.Context, paths []string) ([]File, error) {
	var all []File

	for _, path := range paths {
		files, err := l.loadFromPath(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to load from path %s: %w", path, err)
		}
		all = append(all, files...)
	}

	l.logger.Info().
		Int("total", len(all)).
		Int("sources", len(paths)).
		Msg("Configuration files loaded")

	return all, nil
}

// loadFromPath loads configuration files from a single path.
func (l *Loader) loadFromPath(ctx context.Context, path string) ([]File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if info.IsDir() {
		return l.loadFromDirectory(ctx, path)
	}

	file, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}

	return []File{*file}, nil
}

// loadFromDirectory loads all YAML files from a directory recursively.
func (l *Loader) loadFromDirectory(ctx context.Context, dirPath string) ([]File, error) {
	var files []File

	err := filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if !strings.HasSuffix(path, ".yml") && !strings.HasSuffix(path, ".yaml") {
			return nil
		}

		file, err := l.LoadFile(path)
		if err != nil {
			l.logger.Warn().Err(err).Str("path", path).Msg("Failed to load configuration file")
			return nil // Continue processing other files
		}

		files = append(files, *file)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

// LoadFile loads and decodes a single configuration file.
func (l *Loader) LoadFile(path string) (*File, error) {
	// Check cache first
	l.mu.RLock()
	if cached, exists := l.cache[path]; exists {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	kind, err := DetectKind(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	file, err := Decode(path, kind, data)
	if err != nil {
		return nil, err
	}

	// Cache the decoded file
	l.mu.Lock()
	l.cache[path] = file
	l.mu.Unlock()

	l.logger.Debug().
		Str("path", path).
		Str("kind", string(kind)).
		Msg("Configuration file loaded")

	return file, nil
}

// Decode decodes raw YAML of a known kind into a typed File.
func Decode(path string, kind Kind, data []byte) (*File, error) {
	file := &File{Path: path, Kind: kind}

	switch kind {
	case KindWorkflow:
		var wf workflow.Workflow
		if err := yaml.Unmarshal(data, &wf); err != nil {
			return nil, fmt.Errorf("failed to decode workflow: %w", err)
		}
		if err := checkWorkflow(&wf); err != nil {
			return nil, err
		}
		file.Workflow = &wf
	case KindAction:
		var a action.Action
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("failed to decode action: %w", err)
		}
		file.Action = &a
	case KindDependabot:
		var d dependabot.Dependabot
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to decode dependabot config: %w", err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("invalid dependabot config: %w", err)
		}
		file.Dependabot = &d
	default:
		return nil, fmt.Errorf("unsupported kind: %s", kind)
	}

	return file, nil
}

// checkWorkflow enforces the cross-field constraints a decoded workflow
// must satisfy.
func checkWorkflow(wf *workflow.Workflow) error {
	if wf.On.Count() == 0 {
		return fmt.Errorf("workflow names no trigger events")
	}
	if len(wf.Jobs) == 0 {
		return fmt.Errorf("workflow has no jobs")
	}
	return nil
}

// Watch starts watching paths for changes and triggers reload on change.
func (l *Loader) Watch(ctx context.Context, paths []string, reloadFn func([]File) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	l.watcher = watcher

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			l.logger.Warn().Err(err).Str("path", path).Msg("Failed to stat path for watching")
			continue
		}

		if info.IsDir() {
			if err := l.watchDirectory(path); err != nil {
				l.logger.Warn().Err(err).Str("path", path).Msg("Failed to watch directory")
			}
		} else {
			if err := watcher.Add(path); err != nil {
				l.logger.Warn().Err(err).Str("path", path).Msg("Failed to watch file")
			}
		}
	}

	go l.processEvents(ctx, paths, reloadFn)

	l.logger.Info().
		Int("paths", len(paths)).
		Msg("Started watching configuration paths")

	return nil
}

// watchDirectory adds all directories under a root to the watcher.
func (l *Loader) watchDirectory(dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return l.watcher.Add(path)
		}

		return nil
	})
}

// processEvents processes file system events and triggers reloads.
func (l *Loader) processEvents(ctx context.Context, paths []string, reloadFn func([]File) error) {
	// Debounce reload events
	var reloadTimer *time.Timer
	reloadDelay := 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			if l.watcher != nil {
				_ = l.watcher.Close()
			}
			return

		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if strings.HasSuffix(event.Name, ".yml") || strings.HasSuffix(event.Name, ".yaml") {
					l.logger.Debug().
						Str("file", event.Name).
						Str("op", event.Op.String()).
						Msg("Configuration file changed")

					// Clear cache for this file
					l.mu.Lock()
					delete(l.cache, event.Name)
					l.mu.Unlock()

					if reloadTimer != nil {
						reloadTimer.Stop()
					}
					reloadTimer = time.AfterFunc(reloadDelay, func() {
						if err := l.triggerReload(ctx, paths, reloadFn); err != nil {
							l.logger.Error().Err(err).Msg("Failed to reload configuration")
						}
					})
				}
			}

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			l.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}

// triggerReload reloads all files from watched paths.
func (l *Loader) triggerReload(ctx context.Context, paths []string, reloadFn func([]File) error) error {
	l.logger.Info().Msg("Reloading configuration...")

	files, err := l.LoadFromPaths(ctx, paths)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	if err := reloadFn(files); err != nil {
		return fmt.Errorf("failed to apply reloaded configuration: %w", err)
	}

	l.logger.Info().
		Int("count", len(files)).
		Msg("Configuration reloaded successfully")

	return nil
}

// StopWatching stops watching for file changes.
func (l *Loader) StopWatching() error {
	if l.watcher != nil {
		return l.watcher.Close()
	}
	return nil
}

// ClearCache clears the decoded file cache.
func (l *Loader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache = make(map[string]*File)
	l.logger.Debug().Msg("Configuration cache cleared")
}
