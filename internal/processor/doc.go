// Package processor contains the core document translation workflow. It
// validates the input path, picks the document format by extension,
// translates every non-blank segment in order and saves the result once,
// so a failure never leaves partial output behind. Batch runs and dry runs
// are driven from here as well.
package processor
