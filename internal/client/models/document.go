package models

import (
	"errors"
	"path/filepath"
	"strings"
)

// DocType is the stored representation of a document's content.
type DocType string

const (
	DocTypePDF      DocType = "pdf"
	DocTypeMarkdown DocType = "md"
)

// ErrUnsupportedFileType is returned for files that are neither PDF nor Markdown.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// DocTypeFromFilename maps a file name to its DocType by extension
// (case-insensitive).
func DocTypeFromFilename(name string) (DocType, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return DocTypePDF, nil
	case ".md":
		return DocTypeMarkdown, nil
	default:
		return "", ErrUnsupportedFileType
	}
}

func (t DocType) Valid() bool {
	return t == DocTypePDF || t == DocTypeMarkdown
}

// Document is a stored file together with its classification.
//
// Content is type-dependent: UTF-8 text for Markdown, standard base64 of the
// raw file bytes for PDF.
type Document struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Type          DocType   `json:"document_type"`
	Content       string    `json:"content"`
	CategoryID    int64     `json:"category_id"`
	SubcategoryID int64     `json:"subcategory_id"`
	Summary       string    `json:"summary,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	CreatedAt     Timestamp `json:"created_at"`
	OwnerID       int64     `json:"owner_id"`
}

// DocumentInput is the create/update payload. Type and Content are pointers:
// an update that does not replace the file leaves both nil and they are
// omitted from the request body.
type DocumentInput struct {
	Title         string   `json:"title"`
	Type          *DocType `json:"document_type,omitempty"`
	Content       *string  `json:"content,omitempty"`
	CategoryID    int64    `json:"category_id"`
	SubcategoryID int64    `json:"subcategory_id"`
	Summary       string   `json:"summary"`
}
