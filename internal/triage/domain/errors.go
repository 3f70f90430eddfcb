package domain

// ParseError means the model's output was not the strict JSON object the
// prompt demands. Callers fall back to the heuristic classifier; this
// error is never shown to the end user.
type ParseError struct {
	Detail string
}

func (e *ParseError) Error() string {
	return "malformed model output: " + e.Detail
}
