package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ridoystarlord/formgen/compiler"
	"github.com/ridoystarlord/formgen/config"
	"github.com/ridoystarlord/formgen/database"
	"github.com/ridoystarlord/formgen/diag"
	"github.com/ridoystarlord/formgen/form"
	"github.com/ridoystarlord/formgen/loader"
	"github.com/ridoystarlord/formgen/markup"
	"github.com/ridoystarlord/formgen/validator"
	"github.com/spf13/viper"
)

// consoleSink prints diagnostics to stderr as they are emitted.
type consoleSink struct {
	verbose bool
}

func (s consoleSink) Info(msg string) {
	if s.verbose {
		color.New(color.FgCyan).Fprintf(os.Stderr, "ℹ️  %s\n", msg)
	}
}

func (consoleSink) Warning(msg string) {
	color.New(color.FgYellow).Fprintf(os.Stderr, "⚠️  %s\n", msg)
}

func (consoleSink) Error(msg string) {
	color.New(color.FgRed).Fprintf(os.Stderr, "❌ %s\n", msg)
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// formDir is the directory select_*_from_file references are relative to.
func formDir(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}

// compileForm loads, compiles and validates the form at path. Every
// failure is reported to sink. External choice files are copied to
// outputDir unless it is empty.
func compileForm(path string, cfg *config.Config, outputDir string, sink diag.Sink) (*compiler.Project, error) {
	src, err := loader.Open(path)
	if err != nil {
		sink.Error(err.Error())
		return nil, err
	}
	var renderer form.Renderer
	if cfg.Markdown {
		renderer = markup.NewMarkdown()
	}
	p, err := compiler.Compile(src, compiler.Options{
		Language:     cfg.Language,
		Title:        cfg.Title,
		GroupsAsTabs: cfg.GroupsAsTabs,
		Renderer:     renderer,
		Resolver:     loader.FileResolver{BaseDir: formDir(path), OutputDir: outputDir},
		Sink:         sink,
	})
	if err != nil {
		return nil, err
	}

	result := validator.ValidateProject(p)
	result.Emit(sink)
	if !result.Valid {
		return nil, fmt.Errorf("%d invalid table or column name(s)", len(result.Errors))
	}
	return p, nil
}

// connect opens the database pool, loading .env first.
func connect(ctx context.Context) (*pgxpool.Pool, error) {
	config.LoadEnv()
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	url, err := cfg.RequireDatabase()
	if err != nil {
		return nil, err
	}
	pool, err := database.GetPool(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("unable to get connection pool: %w", err)
	}
	return pool, nil
}
