// Package migrations contiene el esquema SQL de los backends del almacén de documentos
// y lo aplica con goose desde archivos embebidos en el binario.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/jhoicas/Taller-api/pkg/logger"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Dialect nombre de dialecto que entiende goose.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

func (d Dialect) dir() (string, error) {
	switch d {
	case DialectPostgres:
		return "postgres", nil
	case DialectSQLite:
		return "sqlite", nil
	}
	return "", fmt.Errorf("migrations: dialecto no soportado %q", d)
}

// goose guarda su configuración en variables globales.
var mu sync.Mutex

// Run ejecuta un comando de goose (up, down, status, version, redo, reset...).
func Run(ctx context.Context, db *sql.DB, dialect Dialect, log *logger.Logger, command string, args ...string) error {
	dir, err := dialect.dir()
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(files)
	defer goose.SetBaseFS(nil)
	if log != nil {
		goose.SetLogger(gooseLogger{log: log})
	} else {
		goose.SetLogger(goose.NopLogger())
	}
	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Up aplica todas las migraciones pendientes.
func Up(ctx context.Context, db *sql.DB, dialect Dialect, log *logger.Logger) error {
	return Run(ctx, db, dialect, log, "up")
}

// gooseLogger redirige la salida de goose al logger de la aplicación.
type gooseLogger struct {
	log *logger.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info().Msgf(format, v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal().Msgf(format, v...)
}
