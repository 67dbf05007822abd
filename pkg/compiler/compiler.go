package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/topogen/topogen/pkg/confnode"
	"github.com/topogen/topogen/pkg/object"
	"github.com/topogen/topogen/pkg/schema"
	"github.com/topogen/topogen/pkg/telemetry"
)

// Options configures a compilation run.
type Options struct {
	// Paths lists the YAML files or directories to compile, in order.
	// Directories are walked recursively and their files compiled in
	// lexical order.
	Paths []string `validate:"required,min=1"`

	// SchemaValidation pre-validates every document against the built-in
	// CUE schemas before compilation.
	SchemaValidation bool
}

// Result is the outcome of one compilation run.
type Result struct {
	// RunID uniquely identifies this run in logs and events.
	RunID string

	// Registry holds every class defined across all compiled files.
	Registry *schema.Registry

	// Objects holds the top-level objects in creation order.
	Objects []*object.Object

	// Files lists the files compiled, in compilation order.
	Files []string

	CompiledAt time.Time
}

// Compiler compiles topology configuration documents into classes and
// objects.
type Compiler struct {
	opts    Options
	logger  zerolog.Logger
	schemas *SchemaRegistry
	events  *telemetry.EventPublisher
}

// New creates a compiler after validating its options.
func New(opts Options, logger zerolog.Logger) (*Compiler, error) {
	if err := validator.New().Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid compiler options: %w", err)
	}

	return &Compiler{
		opts:    opts,
		logger:  logger.With().Str("component", "compiler").Logger(),
		schemas: NewSchemaRegistry(),
	}, nil
}

// Options returns the options the compiler was created with.
func (c *Compiler) Options() Options {
	return c.opts
}

// WithEvents attaches an event publisher that is notified of the compilation
// lifecycle.
func (c *Compiler) WithEvents(events *telemetry.EventPublisher) *Compiler {
	c.events = events
	return c
}

// Compile loads every configured document and runs the pre-processor over
// them in order. Each run starts from an empty registry.
func (c *Compiler) Compile(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	start := time.Now()

	result, err := c.compile(ctx, runID)
	if c.events != nil {
		if err != nil {
			_ = c.events.PublishCompileFailed(runID, err.Error())
		} else {
			_ = c.events.PublishCompileCompleted(runID,
				len(result.Registry.Classes()), len(result.Objects), time.Since(start))
		}
	}

	return result, err
}

func (c *Compiler) compile(ctx context.Context, runID string) (*Result, error) {
	logger := c.logger.With().Str("run_id", runID).Logger()

	files, err := gatherFiles(c.opts.Paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no configuration files found under %v", c.opts.Paths)
	}

	if c.events != nil {
		_ = c.events.PublishCompileStarted(runID, len(files))
	}

	pp := NewPreProcessor(logger)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		node, err := confnode.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}

		if c.opts.SchemaValidation {
			if err := c.schemas.ValidateDocument(ctx, node); err != nil {
				return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
			}
		}

		if err := pp.Process(node); err != nil {
			return nil, fmt.Errorf("failed to compile %s: %w", path, err)
		}

		logger.Debug().Str("file", path).Msg("Compiled file")
	}

	result := &Result{
		RunID:      runID,
		Registry:   pp.Registry(),
		Objects:    pp.Objects(),
		Files:      files,
		CompiledAt: time.Now(),
	}

	logger.Info().
		Int("files", len(result.Files)).
		Int("classes", len(result.Registry.Classes())).
		Int("objects", len(result.Objects)).
		Msg("Compilation completed")

	return result, nil
}

// gatherFiles expands the configured paths into a flat file list. Explicit
// file paths are taken as-is; directories contribute their .yaml and .yml
// files recursively, in lexical order.
func gatherFiles(paths []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		var dirFiles []string
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isConfigFile(p) {
				return nil
			}
			dirFiles = append(dirFiles, p)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", path, err)
		}

		sort.Strings(dirFiles)
		files = append(files, dirFiles...)
	}

	return files, nil
}

func isConfigFile(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}
