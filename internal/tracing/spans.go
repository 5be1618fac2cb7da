package tracing

// Span attribute keys.
const (
	AttrSource       = "console.source"
	AttrSessionID    = "console.session_id"
	AttrOutputCount  = "console.output_count"
	AttrFunctionName = "zr.function"
	AttrArgCount     = "zr.arg_count"
	AttrTraceID      = "console.trace_id"

	AttrErrorMessage = "error.message"
	AttrErrorType    = "error.type"
)

// Span names.
const (
	SpanExecute        = "console.execute"
	SpanPrefixFunction = "zr.function."
)

// Event names.
const (
	EventHistoryRecorded = "history.recorded"
	EventErrorOccurred   = "error.occurred"
)
