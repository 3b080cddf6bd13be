package xlog

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"runtime"

	"github.com/gravitational/trace"

	cl "cloud.google.com/go/logging"
	"github.com/sirupsen/logrus"
)

const maxStack = 10

var levelMap = map[logrus.Level]cl.Severity{
	logrus.PanicLevel: cl.Emergency,
	logrus.FatalLevel: cl.Critical,
	logrus.ErrorLevel: cl.Error,
	logrus.WarnLevel:  cl.Warning,
	logrus.InfoLevel:  cl.Info,
	logrus.DebugLevel: cl.Debug,
}

// GCLClient forwards log entries to Google Cloud Logging
type GCLClient struct {
	client *cl.Client
}

// Close flushes pending entries and closes the client
func (c *GCLClient) Close() error {
	return trace.Wrap(c.client.Close())
}

// GCLHook is a logrus hook writing to a single cloud log
type GCLHook struct {
	log          *cl.Logger
	commonFields logrus.Fields
}

// NewGCLClient tries to establish connection to google cloud logger using default authentication method and project ID
func NewGCLClient(ctx context.Context, projectID string) (client *GCLClient, err error) {
	if projectID == "" {
		return nil, trace.BadParameter("no cloud logging project ID provided")
	}

	client = &GCLClient{}
	client.client, err = cl.NewClient(ctx, projectID)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	err = client.client.Ping(ctx)
	if err != nil {
		client.client.Close()
		return nil, trace.ConnectionProblem(err, "failed to reach cloud logging for project %v", projectID)
	}

	return client, nil
}

// Hook returns logrus log hook for the log name.
// fields become common labels of every entry
func (c *GCLClient) Hook(name string, fields logrus.Fields) *GCLHook {
	return &GCLHook{
		log:          c.client.Logger(name, cl.CommonLabels(labels(fields))),
		commonFields: fields,
	}
}

// Fire fires the event to the GCL
func (hook *GCLHook) Fire(e *logrus.Entry) error {
	severity, ok := levelMap[e.Level]
	if !ok {
		severity = cl.Default
	}

	hook.log.Log(cl.Entry{
		Payload:  payload(e, hook.commonFields),
		Severity: severity})

	return nil
}

// Levels returns logging levels supported by logrus
func (hook *GCLHook) Levels() []logrus.Level {
	return allLevels
}

func labels(fields logrus.Fields) map[string]string {
	labels := make(map[string]string, len(fields))
	for k, v := range fields {
		switch value := v.(type) {
		case string:
			labels[k] = value
		default:
			labels[k] = toJSON(v)
		}
	}
	return labels
}

// payload returns the entry fields without the common labels
func payload(e *logrus.Entry, common logrus.Fields) logrus.Fields {
	p := e.WithFields(logrus.Fields{"stack": where(maxStack), "message": e.Message}).Data
	for key := range common {
		delete(p, key)
	}
	for key, value := range p {
		if err, ok := value.(error); ok {
			p[key] = trace.UserMessage(err)
		}
	}
	return p
}

func toJSON(obj interface{}) string {
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Sprintf("%v", obj)
	}
	return string(data)
}

var exclude = regexp.MustCompile(`github\.com/sirupsen/logrus|/usr/local/go/src|uitest/lib/xlog`)

func where(max int) (stack []string) {
	for i := 3; i <= 10 && len(stack) < max; i++ {
		_, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if !exclude.MatchString(file) {
			stack = append(stack, fmt.Sprintf("%s:%d", shortPath(file), line))
		}
	}
	return stack
}

var shortPackage = regexp.MustCompile(`(\/[a-zA-Z\_]+){1,3}\.go$`)

func shortPath(p string) string {
	if s := shortPackage.FindString(p); s != "" {
		return s
	}
	return p
}
