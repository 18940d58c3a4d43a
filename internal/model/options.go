package model

// Options configures the behaviour of the Builder. Options are constructed by
// the public adapter in pkg/model and passed into New.
type Options struct {
	Namer   func(label string) string
	Labeler func(name string) string
}

func defaultOptions() Options {
	return Options{
		Namer:   DefaultNamer,
		Labeler: DefaultLabeler,
	}
}
