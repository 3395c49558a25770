// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

var errStubFailure = errors.New("stub failure")

// stubService counts its runs. The first failFirst runs return
// errStubFailure; after that it returns exitErr at once, or blocks until
// cancelled when exitErr is nil.
type stubService struct {
	name      string
	failFirst int32
	exitErr   error

	runs  atomic.Int32
	exits atomic.Int32
}

func newStub(name string) *stubService { return &stubService{name: name} }

func (s *stubService) Serve(ctx context.Context) error {
	n := s.runs.Add(1)
	defer s.exits.Add(1)

	switch {
	case n <= s.failFirst:
		return errStubFailure
	case s.exitErr != nil:
		return s.exitErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) String() string { return s.name }
