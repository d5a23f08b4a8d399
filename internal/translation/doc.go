// Package translation provides the document translation client. It renders
// the translation prompt, resolves model tier presets, retries transient
// provider failures with exponential backoff, and talks to Gemini either
// through the native genai API or its OpenAI-compatible endpoint.
package translation
