// Package docx implements the Word (.docx) document format.
//
// Segments are the paragraphs of the document body followed by the
// paragraphs of every top-level table cell (table by table, row by row,
// cell by cell). A replaced paragraph keeps its properties (w:pPr) and
// loses its runs: the translation is written as a single plain run, so
// bold and italic spans inside the paragraph are not preserved.
// Paragraphs that are never replaced, and every other package part, are
// written back byte for byte.
package docx
