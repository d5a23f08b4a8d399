// Package markdown implements the Markdown document format.
//
// Only the text of prose blocks is translated. Paragraphs, headings and
// list item text are located with goldmark and replaced by byte range, so
// heading markers, list bullets, quote markers, code blocks, HTML blocks
// and front matter are copied through untouched. Inline markup inside a
// prose block (emphasis, links, inline code) travels with the text and is
// only as well preserved as the model keeps it.
package markdown
