// Package document defines the format-independent view of a translatable
// document: an ordered list of text segments that can be replaced by
// position and then saved to a new file. Format packages implement the
// Document and Format interfaces; the Registry routes files to formats by
// extension.
package document
