// Package migrate applies the storefront schema. Postgres runs the goose
// migrations bundled into the binary; sqlite gets an equivalent flat schema.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// DefaultDir is the on-disk location of the migrations, used by create and validate.
const DefaultDir = "pkg/migrate/migrations"

const (
	dialect     = "postgres"
	embeddedDir = "migrations"
)

//go:embed migrations/*.sql
var embedded embed.FS

// goose keeps its dialect, base FS and logger in package globals.
var gooseMu sync.Mutex

// Source selects where migrations are read from. An empty Dir means the
// copy compiled into the binary.
type Source struct {
	Dir  string
	Logg *logger.Logger
}

func (s Source) fsys() (fs.FS, string) {
	if s.Dir == "" {
		return embedded, embeddedDir
	}
	return os.DirFS(s.Dir), "."
}

func (s Source) configure(ctx context.Context) (string, error) {
	fsys, dir := s.fsys()
	goose.SetBaseFS(fsys)
	goose.SetLogger(gooseLogger{ctx: ctx, logg: s.Logg})
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	return dir, nil
}

// Run executes a goose command such as up, down or status.
func Run(ctx context.Context, db *sql.DB, src Source, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	gooseMu.Lock()
	defer gooseMu.Unlock()

	dir, err := src.configure(ctx)
	if err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion moves the schema up or down until it sits at targetVersion.
func MigrateToVersion(ctx context.Context, db *sql.DB, src Source, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	dir, err := src.configure(ctx)
	if err != nil {
		return err
	}
	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil
	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
	}
	return nil
}

// gooseLogger routes goose's progress lines into the structured logger.
type gooseLogger struct {
	ctx  context.Context
	logg *logger.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	if g.logg == nil {
		return
	}
	g.logg.Info(g.ctx, fmt.Sprintf(format, v...))
}

// Fatalf exits like goose's default logger does.
func (g gooseLogger) Fatalf(format string, v ...any) {
	err := fmt.Errorf(format, v...)
	if g.logg != nil {
		g.logg.Error(g.ctx, "goose.fatal", err)
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}
