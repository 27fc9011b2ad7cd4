// Package reader implements the full-screen document viewer: per-open
// sessions with generation checks, presentation settings, whole-document
// Markdown rendering and lazy, window-driven rendering of PDF pages.
//
// A Session is created for every open. Anything that completes after the
// session was closed or replaced (the document fetch, a page render) is
// discarded, so opening X and then Y only ever shows Y.
package reader
