package casparser

import (
	"bytes"
	"errors"
	"fmt"

	"casfolio/cas-import/internal/models"
	"casfolio/cas-import/internal/parsererror"

	"github.com/dslipak/pdf"
)

// Document is an opened, decrypted statement. It holds only in-memory state;
// callers that opened files remain responsible for closing them.
type Document struct {
	reader   *pdf.Reader
	numPages int
}

// OpenDocument opens a statement PDF from a byte buffer. password may be
// empty for unencrypted statements. A wrong or missing password on an
// encrypted document yields *parsererror.DecryptionError; an unreadable byte
// stream yields *parsererror.CorruptDocumentError.
func OpenDocument(data []byte, password string) (doc *Document, err error) {
	// The underlying reader signals malformed structures by panicking.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &parsererror.CorruptDocumentError{Msg: fmt.Sprintf("document open failed: %v", r)}
		}
	}()

	if len(data) == 0 {
		return nil, &parsererror.CorruptDocumentError{Msg: "empty document"}
	}

	// The password callback is invoked repeatedly until it returns "".
	// Offer the supplied password once, then give up.
	offered := false
	pw := func() string {
		if offered || password == "" {
			return ""
		}
		offered = true
		return password
	}

	reader, err := pdf.NewReaderEncrypted(bytes.NewReader(data), int64(len(data)), pw)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, &parsererror.DecryptionError{}
		}
		return nil, &parsererror.CorruptDocumentError{Msg: "cannot read document structure", Err: err}
	}

	return &Document{
		reader:   reader,
		numPages: reader.NumPage(),
	}, nil
}

// NumPages returns the page count of the document.
func (d *Document) NumPages() int {
	return d.numPages
}

// PageRuns extracts the positioned text runs of one page. pageNum is
// 1-based, matching statement page numbering. A page without extractable
// text (a scanned image page) yields zero runs and no error; a page whose
// content stream cannot be decoded yields an error the caller downgrades to
// a diagnostic, never a pipeline abort.
func (d *Document) PageRuns(pageNum int) (runs []models.TextRun, err error) {
	defer func() {
		if r := recover(); r != nil {
			runs = nil
			err = fmt.Errorf("page %d content unreadable: %v", pageNum, r)
		}
	}()

	if pageNum < 1 || pageNum > d.numPages {
		return nil, fmt.Errorf("page %d out of range [1, %d]", pageNum, d.numPages)
	}

	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, nil
	}

	content := page.Content()
	runs = make([]models.TextRun, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		runs = append(runs, models.TextRun{
			Text:     t.S,
			Page:     pageNum,
			X:        t.X,
			Y:        t.Y,
			Width:    t.W,
			FontSize: t.FontSize,
			Font:     t.Font,
		})
	}
	return runs, nil
}
