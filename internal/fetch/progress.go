package fetch

// Progress receives status updates during a fetch. It is passed explicitly
// to each operation.
type Progress interface {
	Report(subject, msg string)
}

// ProgressFunc adapts a function to the Progress interface.
type ProgressFunc func(subject, msg string)

// Report calls f(subject, msg).
func (f ProgressFunc) Report(subject, msg string) {
	f(subject, msg)
}

// NoProgress discards all updates.
var NoProgress Progress = ProgressFunc(func(string, string) {})

// Options are the per-call options shared by all fetch operations.
type Options struct {
	// Key overrides the citation key derived from metadata.
	Key string

	// Document is an explicit local path or URL for the document.
	Document string

	// Progress receives status updates. Nil means NoProgress.
	Progress Progress
}

func (o Options) progress() Progress {
	if o.Progress == nil {
		return NoProgress
	}
	return o.Progress
}
