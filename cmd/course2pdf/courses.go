package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-course2pdf/internal/module"
)

// runCourses lists the courses of the configured database.
func runCourses(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseCoursesFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	cfg, err := loadCLIConfig(&flags.common, env)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	defer func() { _ = logger.Sync() }()

	src, err := openSource(cfg, env, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	courses, err := src.Courses(ctx)
	if err != nil {
		return fmt.Errorf("listing courses: %w", err)
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSHORT NAME\tFULL NAME")
	for _, c := range courses {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.ShortName, c.FullName)
	}
	return tw.Flush()
}

// runTypes prints the exportable activity types, one per line.
func runTypes(env *Environment) {
	for _, name := range module.DefaultRegistry().Supported() {
		fmt.Fprintln(env.Stdout, name)
	}
}
