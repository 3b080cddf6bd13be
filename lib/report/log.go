package report

import (
	"sync"

	"github.com/gravitational/uitest/lib/constants"

	log "github.com/sirupsen/logrus"
)

// NewLog returns a Reporter that logs every closed or added step
func NewLog(logger log.FieldLogger) *Log {
	return &Log{FieldLogger: logger}
}

// Log reports steps to a logrus logger
type Log struct {
	log.FieldLogger
	mu    sync.Mutex
	names []string
}

// StartStep remembers the step name until the step is closed
func (r *Log) StartStep(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
}

// EndStep logs the innermost open step
func (r *Log) EndStep(status Status) {
	r.mu.Lock()
	if len(r.names) == 0 {
		r.mu.Unlock()
		return
	}
	name := r.names[len(r.names)-1]
	r.names = r.names[:len(r.names)-1]
	r.mu.Unlock()
	r.entry(status, name, nil)
}

// AddStep logs a complete step with its attachments as fields
func (r *Log) AddStep(name string, status Status, attachments ...Attachment) {
	r.entry(status, name, attachments)
}

func (r *Log) entry(status Status, name string, attachments []Attachment) {
	le := r.WithFields(log.Fields{
		constants.FieldStep:   name,
		constants.FieldStatus: status,
	})
	for _, a := range attachments {
		le = le.WithField(a.Name, a.Content)
	}
	switch status {
	case Failed, Broken:
		le.Warn("step failed")
	case Skipped:
		le.Info("step skipped")
	default:
		le.Info("step")
	}
}
