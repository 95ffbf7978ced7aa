package logger

// Exported for white-box tests of the error formatter.
var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)

// ErrorEntryMessage returns the message of the i-th collected entry.
func ErrorEntryMessage(entries []errorEntry, i int) string { return entries[i].message }

// ErrorEntryMetadata returns the metadata of the i-th collected entry.
func ErrorEntryMetadata(entries []errorEntry, i int) map[string]any { return entries[i].metadata }
