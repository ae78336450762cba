package domain

// RawDocument represents opaque bytes read from a file or fetched remotely.
// It is the input to a normaliser.
type RawDocument struct {
	// URI is the original location (file path, URL, or "inline").
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Options tunes how the normaliser extracts records.
	Options ExtractOptions

	// Metadata contains source-specific key-value pairs.
	Metadata map[string]any
}

// ExtractOptions are the per-call knobs accepted by the file normalisers.
// Each normaliser reads only the fields that concern it.
type ExtractOptions struct {
	// Pages is a PDF page selection such as "1-5,8" or "all".
	Pages string

	// IncludeTables asks the PDF normaliser to detect layout tables.
	IncludeTables bool

	// Path selects a sub-node of a JSON/YAML document before normalising.
	Path string

	// Flatten collapses nested objects into dot-notation keys.
	Flatten bool

	// Language overrides extension-based language detection for code.
	Language string

	// Mode selects the code extraction mode.
	Mode CodeMode
}
