package excel

import "proteoportal/internal"

// ReaderOptions controls how a data file is turned into a table
type ReaderOptions struct {
	// InferNumbers attaches a number to cells holding a clean numeric literal.
	InferNumbers bool
	// StrictQuotes reports stray quotes as malformed records instead of keeping them as text.
	StrictQuotes bool
	// Concurrency bounds parallel file loads in LoadAll.
	Concurrency int
	Logger      *internal.Logger
}

// DefaultReaderOptions returns sensible defaults for loading result tables
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		InferNumbers: true,
		Concurrency:  4,
	}
}

func (o ReaderOptions) logger() *internal.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return internal.DefaultLogger
}
