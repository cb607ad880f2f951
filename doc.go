// Package course2pdf exports a learning-management-system course to a
// single printable PDF using headless Chrome.
//
// # Quick Start
//
// Open the course database, create an exporter, export, and close when done:
//
//	src, err := store.Open("moodle.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer src.Close()
//
//	exp, err := course2pdf.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	result, err := exp.Export(ctx, src, course2pdf.Input{CourseID: 42})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.Filename, result.PDF, 0644)
//
// The result contains both the PDF bytes (result.PDF) and the intermediate
// HTML (result.HTML) for debugging. Use Input.HTMLOnly to skip PDF generation.
//
// # Export Pipeline
//
//  1. Course, teachers and sections are read from the CourseSource
//  2. Section 0, unsupported activities and empty sections are dropped
//  3. Each activity is rendered by its type's renderer (page, glossary,
//     slideshow, simplequiz), then normalized: emoji become images, math
//     characters become markup, relative CSS units become px, and inert
//     math scripts are removed
//  4. Sections and activities are laid out one section per page with
//     numbered bookmarks, behind a cover page and an optional outline
//  5. The document is printed to PDF via headless Chrome (go-rod)
//
// # Configuration
//
// Use functional options to customize the exporter:
//
//	exp, err := course2pdf.NewExporter(
//	    course2pdf.WithTimeout(2 * time.Minute),
//	    course2pdf.WithWorkers(4),
//	    course2pdf.WithMissingRecordPolicy(course2pdf.MissingSkip),
//	    course2pdf.WithEmojiAssets(emoji),
//	)
//
// Per-export options are passed via Input:
//
//	result, err := exp.Export(ctx, src, course2pdf.Input{
//	    CourseID: 42,
//	    Page:     &course2pdf.PageSettings{Size: "a4", Orientation: "portrait", Margin: 0.8},
//	    Footer:   &course2pdf.Footer{ShowPageNumber: true},
//	    Cover:    &course2pdf.Cover{AuthorLabel: "Published by", Date: "auto:daydate"},
//	    TOC:      &course2pdf.TOC{Title: "Contents"},
//	})
//
// # Parallel Processing
//
// For several courses, use ExporterPool to manage multiple browser instances:
//
//	pool := course2pdf.NewExporterPool(4)
//	defer pool.Close()
//
//	exp, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(exp)
//	result, err := exp.Export(ctx, src, input)
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package course2pdf
