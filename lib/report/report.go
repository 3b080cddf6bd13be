// Package report implements sinks for the step records emitted by the UI model.
package report

// Status is the terminal status of a step
type Status string

const (
	// Passed marks a step that completed successfully
	Passed Status = "passed"
	// Failed marks a step that failed permanently
	Failed Status = "failed"
	// Skipped marks a failed attempt that is followed by a retry
	Skipped Status = "skipped"
	// Broken marks a test that failed with an unexpected error
	Broken Status = "broken"
)

// Attachment is a typed payload attached to a step
type Attachment struct {
	// Name is the display name of the attachment
	Name string
	// Type is the MIME type of Content
	Type string
	// Content is the attachment payload
	Content string
}

// Text returns a text/plain attachment
func Text(name, content string) Attachment {
	return Attachment{Name: name, Type: "text/plain", Content: content}
}

// Reporter receives step records. It is write-only: nothing is read back
type Reporter interface {
	// StartStep opens a step. Steps started while another step is open are nested
	StartStep(name string)
	// EndStep closes the innermost open step with the given status
	EndStep(status Status)
	// AddStep records a complete step
	AddStep(name string, status Status, attachments ...Attachment)
}

// Discard is a Reporter that drops every record
var Discard Reporter = discard{}

type discard struct{}

func (discard) StartStep(string) {}
func (discard) EndStep(Status) {}
func (discard) AddStep(string, Status, ...Attachment) {}

// Multi returns a Reporter that forwards every record to all reporters in order
func Multi(reporters ...Reporter) Reporter {
	return multi(reporters)
}

type multi []Reporter

func (r multi) StartStep(name string) {
	for _, rep := range r {
		rep.StartStep(name)
	}
}

func (r multi) EndStep(status Status) {
	for _, rep := range r {
		rep.EndStep(status)
	}
}

func (r multi) AddStep(name string, status Status, attachments ...Attachment) {
	for _, rep := range r {
		rep.AddStep(name, status, attachments...)
	}
}
