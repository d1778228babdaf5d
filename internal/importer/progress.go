package importer

// ProgressFunc receives per-page import progress. Implementations must not
// block or fail; they are invoked synchronously from the fetch loop.
type ProgressFunc func(percent int, message string)

// NopProgress discards progress updates.
func NopProgress(int, string) {}
