package lifecycle

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"

	"vkbootstrap/graphics"
)

type release struct {
	name string
	fn   func() error
}

// scope releases what was acquired, last in first out. Every release runs
// even when an earlier one fails or panics.
type scope struct {
	releases []release
	unwound  bool
}

func (s *scope) push(name string, fn func() error) {
	s.releases = append(s.releases, release{name: name, fn: fn})
}

func (s *scope) names() []string {
	names := make([]string, len(s.releases))
	for i, r := range s.releases {
		names[i] = r.name
	}
	return names
}

// unwind runs once; later calls return nil.
func (s *scope) unwind() error {
	if s.unwound {
		return nil
	}
	s.unwound = true

	var errs []error
	for i := len(s.releases) - 1; i >= 0; i-- {
		r := s.releases[i]
		if err := runRelease(r); err != nil {
			graphics.Logger().Warn("release failed", "resource", r.name, "error", err)
			errs = append(errs, err)
			continue
		}
		graphics.Logger().Debug("released", "resource", r.name)
	}
	s.releases = nil
	return stderrors.Join(errs...)
}

func runRelease(r release) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("release %s panicked: %v", r.name, p)
		}
	}()
	if err := r.fn(); err != nil {
		return errors.Wrapf(err, "release %s", r.name)
	}
	return nil
}
