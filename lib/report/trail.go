package report

import (
	"strings"
	"sync"
)

// Record is a step captured by a Trail
type Record struct {
	Name        string
	Status      Status
	Attachments []Attachment
	Steps       []*Record
}

// Line is a flattened Record
type Line struct {
	// Depth is the nesting level, 0 for top-level steps
	Depth   int
	Name    string
	Status  Status
	Content string
}

// Trail keeps step records in memory
type Trail struct {
	mu    sync.Mutex
	steps []*Record
	open  []*Record
}

// StartStep opens a nested step
func (r *Trail) StartStep(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := &Record{Name: name}
	r.appendLocked(rec)
	r.open = append(r.open, rec)
}

// EndStep closes the innermost open step
func (r *Trail) EndStep(status Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.open) == 0 {
		return
	}
	r.open[len(r.open)-1].Status = status
	r.open = r.open[:len(r.open)-1]
}

// AddStep records a complete step under the innermost open step
func (r *Trail) AddStep(name string, status Status, attachments ...Attachment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendLocked(&Record{Name: name, Status: status, Attachments: attachments})
}

func (r *Trail) appendLocked(rec *Record) {
	if len(r.open) == 0 {
		r.steps = append(r.steps, rec)
		return
	}
	parent := r.open[len(r.open)-1]
	parent.Steps = append(parent.Steps, rec)
}

// Steps returns the top-level records
func (r *Trail) Steps() []*Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Record(nil), r.steps...)
}

// Lines returns all records in depth-first order
func (r *Trail) Lines() (lines []Line) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var walk func(depth int, steps []*Record)
	walk = func(depth int, steps []*Record) {
		for _, step := range steps {
			var contents []string
			for _, a := range step.Attachments {
				contents = append(contents, a.Content)
			}
			lines = append(lines, Line{
				Depth:   depth,
				Name:    step.Name,
				Status:  step.Status,
				Content: strings.Join(contents, "\n"),
			})
			walk(depth+1, step.Steps)
		}
	}
	walk(0, r.steps)
	return lines
}

// Statuses returns the status of every record in depth-first order
func (r *Trail) Statuses() (statuses []Status) {
	for _, line := range r.Lines() {
		statuses = append(statuses, line.Status)
	}
	return statuses
}
