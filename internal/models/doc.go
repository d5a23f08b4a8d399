// Package models lists the Gemini models available to an API key that can
// be used for translation, together with the built-in tier presets.
package models
