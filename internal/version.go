package internal

// Version is the current doctrans release.
const Version = "0.3.0"
