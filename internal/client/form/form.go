// Package form implements the state machine of the document upload / edit
// dialog: field values, file selection, validation, encoding of the file
// content and the submit/settle cycle.
package form

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/docvault/internal/client/api"
	"github.com/dmitrijs2005/docvault/internal/client/models"
	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/dustin/go-humanize"
)

// User-facing messages.
const (
	MsgInvalidFileType = "Invalid file type. Please upload a PDF or Markdown file."
	MsgSelectFile      = "Please select a file to upload."
	MsgRequiredFields  = "Please fill all required fields."
	MsgSubcategory     = "The selected subcategory does not belong to the category."
	MsgReadFailed      = "Failed to read file."
)

// ErrBusy is returned by Submit while a previous submission is running.
var ErrBusy = errors.New("submission in progress")

// ValidationError carries the message shown next to the form. It matches
// common.ErrorValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == common.ErrorValidation }

// Mode tells whether the form creates a new document or edits one.
type Mode int

const (
	Create Mode = iota
	Edit
)

// Submitter performs the API call of a submission. Implementations are
// expected to refresh the cached data after a successful call.
type Submitter interface {
	CreateDocument(ctx context.Context, in models.DocumentInput) error
	UpdateDocument(ctx context.Context, id int64, in models.DocumentInput) error
}

type Form struct {
	mode       Mode
	documentID int64
	categories []models.Category

	title         string
	summary       string
	categoryID    int64
	subcategoryID int64
	file          string

	err  string
	busy atomic.Bool
	done bool

	readFile func(string) ([]byte, error)
	statFile func(string) (os.FileInfo, error)
}

type Option func(*Form)

// WithFileReader overrides how selected files are read and measured.
func WithFileReader(read func(string) ([]byte, error), stat func(string) (os.FileInfo, error)) Option {
	return func(f *Form) {
		f.readFile = read
		f.statFile = stat
	}
}

func newForm(mode Mode, cats []models.Category, opts []Option) *Form {
	f := &Form{
		mode:       mode,
		categories: cats,
		readFile:   os.ReadFile,
		statFile:   os.Stat,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewCreate opens an empty form with the first category and its first
// subcategory preselected.
func NewCreate(cats []models.Category, opts ...Option) *Form {
	f := newForm(Create, cats, opts)
	if len(cats) > 0 {
		f.categoryID = cats[0].ID
		f.subcategoryID = cats[0].FirstSubcategoryID()
	}
	return f
}

// NewEdit opens a form prefilled from doc. No file is selected.
func NewEdit(doc models.Document, cats []models.Category, opts ...Option) *Form {
	f := newForm(Edit, cats, opts)
	f.documentID = doc.ID
	f.title = doc.Title
	f.summary = doc.Summary
	f.categoryID = doc.CategoryID
	f.subcategoryID = doc.SubcategoryID
	return f
}

func (f *Form) Mode() Mode              { return f.mode }
func (f *Form) DocumentID() int64       { return f.documentID }
func (f *Form) Title() string           { return f.title }
func (f *Form) Summary() string         { return f.summary }
func (f *Form) CategoryID() int64       { return f.categoryID }
func (f *Form) SubcategoryID() int64    { return f.subcategoryID }
func (f *Form) File() string            { return f.file }
func (f *Form) Err() string             { return f.err }
func (f *Form) Busy() bool              { return f.busy.Load() }
func (f *Form) Done() bool              { return f.done }
func (f *Form) SetTitle(s string)       { f.title = s }
func (f *Form) SetSummary(s string)     { f.summary = s }
func (f *Form) SetSubcategory(id int64) { f.subcategoryID = id }

// Categories returns the taxonomy the form was opened with.
func (f *Form) Categories() []models.Category { return f.categories }

// SelectFile validates path by extension. A rejected file clears the
// selection; an accepted one fills a blank title from the file name.
func (f *Form) SelectFile(path string) error {
	if _, err := models.DocTypeFromFilename(path); err != nil {
		f.file = ""
		f.err = MsgInvalidFileType
		return &ValidationError{Message: MsgInvalidFileType}
	}

	f.file = path
	f.err = ""
	if strings.TrimSpace(f.title) == "" {
		base := filepath.Base(path)
		f.title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return nil
}

// SelectCategory selects category id together with its first subcategory
// (none if it has no subcategories or is unknown).
func (f *Form) SelectCategory(id int64) {
	f.categoryID = id
	f.subcategoryID = 0
	for _, c := range f.categories {
		if c.ID == id {
			f.subcategoryID = c.FirstSubcategoryID()
			return
		}
	}
}

// FileLabel describes the selected file, e.g. "report.pdf (1.2 MB)".
func (f *Form) FileLabel() string {
	if f.file == "" {
		return "no file selected"
	}
	name := filepath.Base(f.file)
	if fi, err := f.statFile(f.file); err == nil {
		return fmt.Sprintf("%s (%s)", name, humanize.Bytes(uint64(fi.Size())))
	}
	return name
}

// Validate checks the fields without any I/O.
func (f *Form) Validate() error {
	if f.mode == Create && f.file == "" {
		return &ValidationError{Message: MsgSelectFile}
	}
	if strings.TrimSpace(f.title) == "" || f.categoryID <= 0 || f.subcategoryID <= 0 {
		return &ValidationError{Message: MsgRequiredFields}
	}
	for _, c := range f.categories {
		if c.ID == f.categoryID {
			if _, ok := c.Subcategory(f.subcategoryID); !ok {
				return &ValidationError{Message: MsgSubcategory}
			}
			break
		}
	}
	return nil
}

// Encode builds the request payload. Markdown is sent as text, PDF as
// standard base64. Without a selected file Type and Content stay nil.
func (f *Form) Encode() (models.DocumentInput, error) {
	in := models.DocumentInput{
		Title:         strings.TrimSpace(f.title),
		CategoryID:    f.categoryID,
		SubcategoryID: f.subcategoryID,
		Summary:       f.summary,
	}
	if f.file == "" {
		return in, nil
	}

	typ, err := models.DocTypeFromFilename(f.file)
	if err != nil {
		return models.DocumentInput{}, &ValidationError{Message: MsgInvalidFileType}
	}
	raw, err := f.readFile(f.file)
	if err != nil {
		return models.DocumentInput{}, fmt.Errorf("%s: %w", MsgReadFailed, err)
	}

	var content string
	if typ == models.DocTypePDF {
		content = base64.StdEncoding.EncodeToString(raw)
	} else {
		content = string(raw)
	}
	in.Type = &typ
	in.Content = &content
	return in, nil
}

// Submit validates, encodes and hands the payload to s. On failure the
// message is kept in Err and every field keeps its value.
func (f *Form) Submit(ctx context.Context, s Submitter) error {
	if !f.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer f.busy.Store(false)

	if err := f.Validate(); err != nil {
		f.err = err.Error()
		return err
	}

	in, err := f.Encode()
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			f.err = verr.Message
		} else {
			f.err = MsgReadFailed
		}
		return err
	}

	f.err = ""
	if f.mode == Edit {
		err = s.UpdateDocument(ctx, f.documentID, in)
	} else {
		err = s.CreateDocument(ctx, in)
	}
	if err != nil {
		f.err = api.Message(err)
		return err
	}

	f.done = true
	return nil
}
