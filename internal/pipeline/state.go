package pipeline

// State is a step of a single document run.
type State string

const (
	StateSegmenting        State = "segmenting"
	StateIndexing          State = "indexing"
	StateRetrieving        State = "retrieving"
	StatePrompting         State = "prompting"
	StateGenerated         State = "generated"
	StateGenerationFailed  State = "generation_failed"
	StateParsing           State = "parsing"
	StateParsed            State = "parsed"
	StateParseEmpty        State = "parse_empty"
	StateFallback          State = "fallback"
	StateFallbackExtracted State = "fallback_extracted"
	StateFallbackEmpty     State = "fallback_empty"
	StateAssembling        State = "assembling"
	StateExporting         State = "exporting"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
