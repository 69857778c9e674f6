package logger

// FormatError exposes the pretty error formatter for tests.
var FormatError = formatError
