package report

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/gravitational/uitest/lib/system"

	"github.com/google/uuid"
	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
)

// Label is an Allure test label such as suite, feature or severity
type Label struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewAllure returns a Reporter that writes Allure 2 result files into dir
func NewAllure(dir string) (*Allure, error) {
	if dir == "" {
		return nil, trace.BadParameter("missing report directory")
	}
	if err := system.EnsureDir(dir); err != nil {
		return nil, trace.Wrap(err)
	}
	return &Allure{
		dir:         dir,
		now:         time.Now,
		newUUID:     func() string { return uuid.New().String() },
		FieldLogger: log.WithField("reporter", "allure"),
	}, nil
}

// Allure writes one <uuid>-result.json file per test.
// Steps recorded outside of a test are dropped
type Allure struct {
	log.FieldLogger
	dir     string
	now     func() time.Time
	newUUID func() string

	mu      sync.Mutex
	current *allureResult
	open    []*allureStep
}

type allureResult struct {
	UUID          string             `json:"uuid"`
	HistoryID     string             `json:"historyId"`
	Name          string             `json:"name"`
	FullName      string             `json:"fullName"`
	Status        Status             `json:"status"`
	StatusDetails *statusDetails     `json:"statusDetails,omitempty"`
	Stage         string             `json:"stage"`
	Start         int64              `json:"start"`
	Stop          int64              `json:"stop"`
	Labels        []Label            `json:"labels,omitempty"`
	Steps         []*allureStep      `json:"steps,omitempty"`
	Attachments   []allureAttachment `json:"attachments,omitempty"`
}

type allureStep struct {
	Name        string             `json:"name"`
	Status      Status             `json:"status"`
	Stage       string             `json:"stage"`
	Start       int64              `json:"start"`
	Stop        int64              `json:"stop"`
	Steps       []*allureStep      `json:"steps,omitempty"`
	Attachments []allureAttachment `json:"attachments,omitempty"`
}

type allureAttachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

type statusDetails struct {
	Message string `json:"message,omitempty"`
	Trace   string `json:"trace,omitempty"`
}

const stageFinished = "finished"

// StartTest begins a new test result. A test still in progress is stopped as broken
func (r *Allure) StartTest(name, fullName string, labels ...Label) {
	r.mu.Lock()
	pending := r.current != nil
	r.mu.Unlock()
	if pending {
		if err := r.StopTest(Broken, trace.Errorf("test was not stopped")); err != nil {
			r.WithError(err).Warn("Failed to write pending result.")
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	sum := md5.Sum([]byte(fullName))
	r.current = &allureResult{
		UUID:      r.newUUID(),
		HistoryID: hex.EncodeToString(sum[:]),
		Name:      name,
		FullName:  fullName,
		Start:     r.millis(),
		Labels:    labels,
	}
	r.open = nil
}

// StopTest finishes the current test and writes its result file.
// err, if not nil, is recorded as the status message
func (r *Allure) StopTest(status Status, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := r.current
	if result == nil {
		return trace.NotFound("no test in progress")
	}
	now := r.millis()
	for i := len(r.open) - 1; i >= 0; i-- {
		r.open[i].Status = Broken
		r.open[i].Stage = stageFinished
		r.open[i].Stop = now
	}
	r.current, r.open = nil, nil

	result.Status = status
	result.Stage = stageFinished
	result.Stop = now
	if err != nil {
		result.StatusDetails = &statusDetails{
			Message: err.Error(),
			Trace:   trace.DebugReport(err),
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return trace.Wrap(err)
	}
	path := filepath.Join(r.dir, fmt.Sprintf("%v-result.json", result.UUID))
	return trace.Wrap(system.WriteFile(path, data))
}

// StartStep opens a step in the current test
func (r *Allure) StartStep(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		r.Debugf("Dropping step %q outside of a test.", name)
		return
	}
	step := &allureStep{Name: name, Start: r.millis()}
	r.appendLocked(step)
	r.open = append(r.open, step)
}

// EndStep closes the innermost open step
func (r *Allure) EndStep(status Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.open) == 0 {
		return
	}
	step := r.open[len(r.open)-1]
	r.open = r.open[:len(r.open)-1]
	step.Status = status
	step.Stage = stageFinished
	step.Stop = r.millis()
}

// AddStep records a complete step, writing each attachment to its own file
func (r *Allure) AddStep(name string, status Status, attachments ...Attachment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		r.Debugf("Dropping step %q outside of a test.", name)
		return
	}
	now := r.millis()
	step := &allureStep{Name: name, Status: status, Stage: stageFinished, Start: now, Stop: now}
	for _, a := range attachments {
		source, err := r.writeAttachmentLocked(a)
		if err != nil {
			r.WithError(err).Warnf("Failed to write attachment %q.", a.Name)
			continue
		}
		step.Attachments = append(step.Attachments, allureAttachment{Name: a.Name, Source: source, Type: a.Type})
	}
	r.appendLocked(step)
}

func (r *Allure) appendLocked(step *allureStep) {
	if len(r.open) == 0 {
		r.current.Steps = append(r.current.Steps, step)
		return
	}
	parent := r.open[len(r.open)-1]
	parent.Steps = append(parent.Steps, step)
}

func (r *Allure) writeAttachmentLocked(a Attachment) (source string, err error) {
	source = fmt.Sprintf("%v-attachment.%v", r.newUUID(), extension(a.Type))
	err = system.WriteFile(filepath.Join(r.dir, source), []byte(a.Content))
	if err != nil {
		return "", trace.Wrap(err)
	}
	return source, nil
}

func (r *Allure) millis() int64 {
	return r.now().UnixNano() / int64(time.Millisecond)
}

func extension(mimeType string) string {
	switch mimeType {
	case "application/json":
		return "json"
	case "image/png":
		return "png"
	case "text/html":
		return "html"
	default:
		return "txt"
	}
}
