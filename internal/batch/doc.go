// Package batch reads batch list files naming the documents to translate
// in one run, each optionally with its own target language.
package batch
