package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: course2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Export courses to PDF")
	fmt.Fprintln(w, "  courses    List courses in the database")
	fmt.Fprintln(w, "  types      List exportable activity types")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'course2pdf help <command>' for details on a specific command.")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: course2pdf export <course-id>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export one or more courses to PDF. Each course is written to")
	fmt.Fprintln(w, "course_<id>_<unix time>.pdf in the output directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "      --db <path>             Course database (SQLite file)")
	fmt.Fprintln(w, "  -o, --output <dir>          Output directory")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "      --env-file <path>       Dotenv file (default: .env)")
	fmt.Fprintln(w, "  -j, --jobs <n>              Courses exported in parallel (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>           PDF generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Content:")
	fmt.Fprintln(w, "  -w, --workers <n>           Activities rendered in parallel per course")
	fmt.Fprintln(w, "      --activity-timeout <d>  Time budget per activity (default: 30s)")
	fmt.Fprintln(w, "      --on-missing <s>        Missing activity record: abort, skip")
	fmt.Fprintln(w, "      --emoji-dir <dir>       Directory of emoji_u<key>.svg images")
	fmt.Fprintln(w, "      --files-dir <dir>       Directory of embedded course files")
	fmt.Fprintln(w, "      --root-font-size <px>   Size of 1rem/1em when converting units")
	fmt.Fprintln(w, "      --lang <s>              Document language (default: en)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cover:")
	fmt.Fprintln(w, "      --author-label <s>      Label before teacher names")
	fmt.Fprintln(w, "      --cover-date <s>        Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                              Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, dddd")
	fmt.Fprintln(w, "      --site-url <url>        LMS root URL for the enrolment link")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>         Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>       Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>            Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Footer:")
	fmt.Fprintln(w, "      --footer-position <s>   Position: left, center, right")
	fmt.Fprintln(w, "      --footer-text <s>       Custom footer text")
	fmt.Fprintln(w, "      --footer-page-number    Show page numbers")
	fmt.Fprintln(w, "      --no-page-number        Hide page numbers")
	fmt.Fprintln(w, "      --no-footer             Disable footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Outline:")
	fmt.Fprintln(w, "      --toc-title <s>         Outline heading")
	fmt.Fprintln(w, "      --no-toc                Disable outline")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name|path>     CSS style name or file path")
	fmt.Fprintln(w, "      --asset-path <dir>      Custom asset directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "      --html                  Write HTML alongside PDF")
	fmt.Fprintln(w, "      --html-only             Write HTML only, skip PDF")
	fmt.Fprintln(w, "      --minify                Minify the HTML document")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show debug logs and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  COURSE2PDF_CONFIG, COURSE2PDF_DB, COURSE2PDF_OUTPUT_DIR, COURSE2PDF_EMOJI_DIR,")
	fmt.Fprintln(w, "  COURSE2PDF_TIMEOUT, COURSE2PDF_WORKERS, COURSE2PDF_STYLE, COURSE2PDF_PAGE_SIZE")
}

// printCoursesUsage prints usage for the courses command.
func printCoursesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: course2pdf courses [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the id and name of every course in the database.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --db <path>             Course database (SQLite file)")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "      --env-file <path>       Dotenv file (default: .env)")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "export":
		printExportUsage(env.Stdout)
	case "courses":
		printCoursesUsage(env.Stdout)
	case "types":
		fmt.Fprintln(env.Stdout, "Usage: course2pdf types")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List the activity types that can be exported.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: course2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: course2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
