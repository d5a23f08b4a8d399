// Package pdf implements the PDF document format.
//
// PDF has no editable text model, so translation re-renders instead of
// patching: text is extracted page by page, grouped into blocks using the
// glyph positions and font sizes, and the translated blocks are flowed
// onto fresh A4 pages, one output page per source page that carried text.
// The original visual layout, images and pages without a text layer are
// not reproduced.
package pdf
