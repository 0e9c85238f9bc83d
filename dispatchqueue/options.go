package dispatchqueue

// Option configures a Service at construction, following the teacher's
// functional-option idiom (eventloop.LoopOption).
type Option interface {
	apply(*Service)
}

type optionFunc func(*Service)

func (f optionFunc) apply(s *Service) { f(s) }

// WithPostPanicsOnShutdown restores spec.md's literal default for
// Service.Post called after Shutdown: a fatal crash via internal/tagcrash
// instead of the Go-idiomatic ErrQueueShutdown (spec.md §9 open question 3).
func WithPostPanicsOnShutdown() Option {
	return optionFunc(func(s *Service) {
		s.postPanicsOnShutdown = true
	})
}
