package main

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	course2pdf "github.com/alnah/go-course2pdf"
	"github.com/alnah/go-course2pdf/internal/store"
)

// Source is the course database the CLI reads from.
type Source interface {
	course2pdf.CourseSource
	Courses(ctx context.Context) ([]course2pdf.Course, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Source = (*store.Store)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the course database, and the exporter pool.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	Getenv    func(string) string
	Environ   func() []string
	OpenStore func(dsn string, logger *zap.Logger) (Source, error)
	NewPool   func(size int, opts ...course2pdf.Option) Pool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:       time.Now,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Getenv:    os.Getenv,
		Environ:   os.Environ,
		OpenStore: openStore,
		NewPool:   newExporterPool,
	}
}

// openStore opens the SQLite course database read-only.
func openStore(dsn string, logger *zap.Logger) (Source, error) {
	s, err := store.Open(readOnlyDSN(dsn), store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// readOnlyDSN turns a plain path into a read-only file URI.
// DSNs that already carry a scheme or parameters are kept.
func readOnlyDSN(dsn string) string {
	if dsn == "" || strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, "?") {
		return dsn
	}
	return "file:" + dsn + "?mode=ro"
}
