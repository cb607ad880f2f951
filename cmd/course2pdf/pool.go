package main

import (
	course2pdf "github.com/alnah/go-course2pdf"
)

// Pool abstracts exporter pool operations for testability.
type Pool interface {
	Acquire() (CourseExporter, error)
	Release(CourseExporter)
	Size() int
	Close() error
}

// exporterPool adapts course2pdf.ExporterPool to Pool.
type exporterPool struct {
	pool *course2pdf.ExporterPool
}

// Compile-time check that exporterPool implements Pool.
var _ Pool = (*exporterPool)(nil)

// newExporterPool creates a pool of size exporters sharing opts.
// Exporters, and their browsers, are created lazily on first acquire.
func newExporterPool(size int, opts ...course2pdf.Option) Pool {
	return &exporterPool{pool: course2pdf.NewExporterPool(size, opts...)}
}

func (p *exporterPool) Acquire() (CourseExporter, error) {
	exp, err := p.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func (p *exporterPool) Release(exp CourseExporter) {
	if e, ok := exp.(*course2pdf.Exporter); ok {
		p.pool.Release(e)
	}
}

func (p *exporterPool) Size() int {
	return p.pool.Size()
}

func (p *exporterPool) Close() error {
	return p.pool.Close()
}
