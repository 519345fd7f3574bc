// Package casparser turns a Consolidated Account Statement PDF into
// validated buy/sell transactions plus row-level diagnostics.
//
// The pipeline is a single pass: loader → layout reconstructor → statement
// segmenter → transaction extractor → validation. Pages are independent, so
// run extraction and row reconstruction fan out per page; section boundaries
// can span a page break, so everything from segmentation onward runs
// sequentially over the ordered, page-concatenated row stream.
package casparser

import (
	"context"
	"sort"
	"time"

	"casfolio/cas-import/internal/logging"
	"casfolio/cas-import/internal/models"
	"casfolio/cas-import/internal/parsererror"

	"golang.org/x/sync/errgroup"
)

// Parser is the CAS parsing pipeline. Construct with New; a zero Parser is
// not usable.
type Parser struct {
	layout    LayoutConfig
	templates []Template
	log       logging.Logger
}

// New creates a Parser with the given layout tolerances and issuer
// templates. Passing no templates selects the built-ins.
func New(layout LayoutConfig, templates []Template, logger logging.Logger) *Parser {
	if len(templates) == 0 {
		templates = BuiltinTemplates()
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Parser{
		layout:    layout,
		templates: templates,
		log:       logger,
	}
}

// SetLogger replaces the parser's logger.
func (p *Parser) SetLogger(logger logging.Logger) {
	if logger != nil {
		p.log = logger
	}
}

// Parse runs the full pipeline over a statement held in memory. password
// may be empty. The parse is a pure function of (data, password) for a fixed
// template set: repeated runs yield identical transactions and diagnostics.
//
// Fatal failures are *parsererror.DecryptionError,
// *parsererror.CorruptDocumentError and *parsererror.NoSectionsFoundError;
// every other anomaly is reported in the result's diagnostics.
func (p *Parser) Parse(ctx context.Context, data []byte, password string) (models.ParseResult, error) {
	doc, err := OpenDocument(data, password)
	if err != nil {
		return models.ParseResult{}, err
	}

	p.log.Info("Parsing statement document",
		logging.Field{Key: logging.FieldCount, Value: doc.NumPages()})

	return p.run(ctx, doc.NumPages(), doc.PageRuns)
}

// run executes the pipeline against a page source. Split out from Parse so
// the stages can be exercised without a real document.
func (p *Parser) run(ctx context.Context, numPages int, pageSource func(int) ([]models.TextRun, error)) (models.ParseResult, error) {
	now := time.Now().UTC()

	pageRows := make([][]models.Row, numPages)
	pageDiags := make([]*models.Diagnostic, numPages)

	// Per-page extraction and row reconstruction are independent and fan
	// out; a page that cannot be read contributes a diagnostic and a gap in
	// the row stream, not a failure.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.layout.MaxParallelPages)
	for i := 0; i < numPages; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pageNum := i + 1
			runs, err := pageSource(pageNum)
			if err != nil {
				pageDiags[i] = &models.Diagnostic{
					Page:   pageNum,
					Reason: "page content unreadable: " + err.Error(),
				}
				return nil
			}
			pageRows[i] = ReconstructRows(runs, p.layout)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Cancellation abandons the computation; partial results are never
		// surfaced.
		return models.ParseResult{}, err
	}

	var rows []models.Row
	for _, pr := range pageRows {
		rows = append(rows, pr...)
	}

	sections := segmentRows(rows, p.templates)
	if len(sections) == 0 {
		names := make([]string, len(p.templates))
		for i, t := range p.templates {
			names[i] = t.Name
		}
		return models.ParseResult{}, &parsererror.NoSectionsFoundError{
			Pages:     numPages,
			Templates: names,
		}
	}

	candidates, extractDiags := extractSections(sections)
	transactions, validateDiags := validateCandidates(candidates, now)

	diagnostics := make([]models.Diagnostic, 0, len(extractDiags)+len(validateDiags))
	for _, d := range pageDiags {
		if d != nil {
			diagnostics = append(diagnostics, *d)
		}
	}
	diagnostics = append(diagnostics, extractDiags...)
	diagnostics = append(diagnostics, validateDiags...)
	// Document order: by page, preserving in-page extraction order.
	sort.SliceStable(diagnostics, func(i, j int) bool {
		return diagnostics[i].Page < diagnostics[j].Page
	})

	p.log.Info("Statement parsed",
		logging.Field{Key: "transactions", Value: len(transactions)},
		logging.Field{Key: "skipped_rows", Value: len(diagnostics)},
		logging.Field{Key: logging.FieldSection, Value: len(sections)})

	return models.ParseResult{
		Transactions: transactions,
		Diagnostics:  diagnostics,
	}, nil
}
