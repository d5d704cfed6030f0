// Package router maps URL-style paths to view state and owns the history
// stack. A path change, whether from Navigate or Back/Forward, re-derives
// the view from the path alone; no other navigation state survives.
package router

import (
	"regexp"
	"sync"
)

// jobPathRe matches detail paths: /job/{id} with a 36-char hex-and-hyphen
// identifier, optional trailing slash.
var jobPathRe = regexp.MustCompile(`^/job/([0-9a-fA-F-]{36})/?$`)

// ViewKind names the two addressable views.
type ViewKind string

const (
	ViewList   ViewKind = "list"
	ViewDetail ViewKind = "detail"
)

// View is the state derived from a path.
type View struct {
	Kind ViewKind
	// JobID is set only for detail views.
	JobID string
}

// JobLookup reports whether a job id is present in the local cache. A
// detail path whose job is missing resolves to the list view instead of
// erroring.
type JobLookup func(id string) bool

// Router owns the path history and derives view state from paths.
type Router struct {
	mu       sync.Mutex
	history  []string
	pos      int
	lookup   JobLookup
	onChange func(View)
}

// New returns a router positioned at the root path. onChange may be nil.
func New(lookup JobLookup, onChange func(View)) *Router {
	return &Router{
		history:  []string{"/"},
		pos:      0,
		lookup:   lookup,
		onChange: onChange,
	}
}

// JobPath renders the canonical detail path for a job.
func JobPath(jobID string) string {
	return "/job/" + jobID
}

// PathJobID extracts the job id from a detail path, or "" if the path does
// not address a job.
func PathJobID(path string) string {
	m := jobPathRe.FindStringSubmatch(path)
	if m == nil {
		return ""
	}
	return m[1]
}

// resolve derives the view for a path. Unknown paths and detail paths for
// absent jobs fall back to the list view.
func (r *Router) resolve(path string) View {
	id := PathJobID(path)
	if id == "" {
		return View{Kind: ViewList}
	}
	if r.lookup != nil && !r.lookup(id) {
		return View{Kind: ViewList}
	}
	return View{Kind: ViewDetail, JobID: id}
}

// Navigate pushes a path onto the history, truncating any forward entries,
// and fires the view change.
func (r *Router) Navigate(path string) View {
	r.mu.Lock()
	r.history = append(r.history[:r.pos+1], path)
	r.pos = len(r.history) - 1
	v := r.resolve(path)
	r.mu.Unlock()

	r.fire(v)
	return v
}

// Back moves one step back in history, if possible, and fires the view
// change. Returns the resulting view.
func (r *Router) Back() View {
	r.mu.Lock()
	if r.pos > 0 {
		r.pos--
	}
	v := r.resolve(r.history[r.pos])
	r.mu.Unlock()

	r.fire(v)
	return v
}

// Forward moves one step forward in history, if possible, and fires the
// view change. Returns the resulting view.
func (r *Router) Forward() View {
	r.mu.Lock()
	if r.pos < len(r.history)-1 {
		r.pos++
	}
	v := r.resolve(r.history[r.pos])
	r.mu.Unlock()

	r.fire(v)
	return v
}

// Current re-derives the view for the current path. Called after reloads,
// since a job addressed by the current path may have disappeared.
func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolve(r.history[r.pos])
}

// Path returns the current raw path.
func (r *Router) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history[r.pos]
}

func (r *Router) fire(v View) {
	if r.onChange != nil {
		r.onChange(v)
	}
}
