package report

// Report is the JSON output of a fit invocation: one entry for a single
// fit, one per source file for a batch run.
type Report struct {
	Version     int     `json:"version"`
	GeneratedAt string  `json:"generated_at"`
	Results     []Entry `json:"results"`
	Stats       Stats   `json:"stats"`
}

// Entry records the outcome for one source image.
type Entry struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Format string `json:"format"`

	TargetBytes int64 `json:"target_bytes"`
	OutputBytes int64 `json:"output_bytes"`

	// Quality is the lossy quality chosen, or the compression level for
	// lossless formats.
	Quality   int  `json:"quality"`
	Rounds    int  `json:"rounds"`
	MetTarget bool `json:"met_target"`

	OriginalWidth  int `json:"original_width"`
	OriginalHeight int `json:"original_height"`
	Width          int `json:"width"`
	Height         int `json:"height"`

	// Hash is the xxhash64 of the output bytes (16 hex chars).
	Hash string `json:"hash,omitempty"`

	// Error is set when this input failed outright (decode or encode
	// failure); the sizing fields are zero in that case.
	Error string `json:"error,omitempty"`
}

// Stats aggregates a report.
type Stats struct {
	TotalInputs      int   `json:"total_inputs"`
	MetTarget        int   `json:"met_target"`
	Missed           int   `json:"missed"`
	Failed           int   `json:"failed"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
}

// SupportedReportVersion is the current schema version.
const SupportedReportVersion = 1
