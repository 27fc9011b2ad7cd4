// Package tui hosts the document reader as a full-screen bubbletea program.
//
// Markdown documents are rendered once per presentation change and scrolled
// in a viewport. PDF documents are laid out by the reader's pager; pages
// near the visible window render as tea commands and their results are
// applied only while the reader session that asked for them is current.
package tui
