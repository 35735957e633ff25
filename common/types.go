package common

// PipelineConfig carries per-job settings through the pipeline.
type PipelineConfig struct {
	PDFPath        string
	OutputDir      string
	SummaryLength  string
	ElevenLabsKey  string
	HuggingFaceKey string
}

// Summary length settings, selectable per upload.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// ValidLength reports whether l is a known summary length.
func ValidLength(l string) bool {
	return l == LengthShort || l == LengthMedium || l == LengthLong
}

// SummaryMaxTokens scales the generation limit to the requested length.
func SummaryMaxTokens(length string) int {
	switch length {
	case LengthShort:
		return 400
	case LengthLong:
		return 1500
	default:
		return 800
	}
}
