package scope

import "fmt"

// Environment is a shared, reference-counted handle on one Record plus a
// link to the enclosing environment. Every environment owns one share of
// its outer environment, so a chain stays alive for as long as anything
// holds its innermost link.
//
// Environments are never copied; every holder aliases the same record.
type Environment struct {
	record  Record
	outer   *Environment
	refs    int
	tracker *Tracker
}

// NewEnvironment returns a handle holding one share, owned by the caller.
// It takes a share of outer.
func NewEnvironment(record Record, outer *Environment) *Environment {
	if outer != nil {
		outer.Retain()
	}
	return &Environment{record: record, outer: outer, refs: 1}
}

func NewDeclarativeEnvironment(outer *Environment) *Environment {
	return NewEnvironment(NewDeclarativeRecord(), outer)
}

func NewObjectEnvironment(obj BindingObject, outer *Environment, provideThis bool) *Environment {
	return NewEnvironment(NewObjectRecord(obj, provideThis), outer)
}

func (e *Environment) Record() Record { return e.record }

// Outer returns the enclosing environment, nil for the global one.
func (e *Environment) Outer() *Environment { return e.outer }

// Depth is the number of environments from e to the global environment,
// counting both ends.
func (e *Environment) Depth() int {
	n := 0
	for env := e; env != nil; env = env.outer {
		n++
	}
	return n
}

func (e *Environment) Refs() int      { return e.refs }
func (e *Environment) Released() bool { return e.refs == 0 }

// Retain takes an additional share and returns e for chaining.
func (e *Environment) Retain() *Environment {
	if e.refs == 0 {
		panic(fmt.Sprintf("retain of released environment %p", e))
	}
	e.refs++
	return e
}

// Release gives back one share and returns the number left. The last
// release also gives back the share held on the outer environment.
// Releasing more shares than were taken is a programming error.
func (e *Environment) Release() int {
	if e.refs == 0 {
		panic(fmt.Sprintf("release of released environment %p", e))
	}
	e.refs--
	if e.refs != 0 {
		return e.refs
	}
	if e.tracker != nil {
		e.tracker.released++
		if e.tracker.onRelease != nil {
			e.tracker.onRelease(e)
		}
	}
	if e.outer != nil {
		e.outer.Release()
	}
	return 0
}

// ===============
// Lifetime stats
// ===============

type Stats struct {
	Created  int
	Released int
}

func (s Stats) Live() int { return s.Created - s.Released }

// Tracker counts environments created and released by one evaluation
// context.
type Tracker struct {
	created   int
	released  int
	onRelease func(*Environment)
}

func NewTracker(onRelease func(*Environment)) *Tracker {
	return &Tracker{onRelease: onRelease}
}

// Track registers e with the tracker and returns it.
func (t *Tracker) Track(e *Environment) *Environment {
	if e.tracker == nil {
		e.tracker = t
		t.created++
	}
	return e
}

func (t *Tracker) Stats() Stats {
	return Stats{Created: t.created, Released: t.released}
}
