/*
Copyright 2020 Gravitational, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

/*
 The tests within this file cover configuration loading and show how
 parameters can be declared, validated, and have defaults provided.
*/

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gravitational/trace"
)

// defaultTimeout is meaningless test data, it could be any duration
var defaultTimeout = 5 * time.Second

// testParam is an artificial struct with custom defaulting logic.
type testParam struct {
	UID       uint             `json:"uid"`
	Username  string           `json:"user"`
	Operation *nestedTestParam `json:"operation"`
}

// CheckAndSetDefaults provides some basic default logic validation for testParam.
func (r *testParam) CheckAndSetDefaults() error {
	var expected string
	switch r.UID {
	case 0:
		expected = "root"
	case 1:
		expected = "daemon"
	default:
		return trace.BadParameter("unknown UID %v", r.UID)
	}
	if r.Username == "" {
		r.Username = expected
	} else {
		if r.Username != expected {
			return trace.BadParameter("username %q does not match UID %v", r.Username, r.UID)
		}
	}
	if r.Operation != nil {
		if err := r.Operation.CheckAndSetDefaults(); err != nil {
			return trace.Wrap(err)
		}
	}
	return nil
}

// nestedTestParam demonstrates validation and defaults for potentially nil sub parameters.
type nestedTestParam struct {
	Name    string   `json:"name" validate:"required"`
	Timeout *Timeout `json:"timeout"`
}

func (r *nestedTestParam) CheckAndSetDefaults() error {
	if r.Timeout == nil {
		r.Timeout = &Timeout{defaultTimeout}
	}
	return nil
}

// loadParam is a flat configuration file layout
type loadParam struct {
	URL     string  `json:"url" yaml:"url" env:"UITEST_CONFIG_TEST_URL" validate:"required,url"`
	Timeout Timeout `json:"timeout" yaml:"timeout"`
}

func TestCompleteParamValidation(t *testing.T) {
	data := []byte(`{"uid":1,"user":"daemon","operation":{"name":"start","timeout":"30s"}}`)
	var p testParam
	if err := json.Unmarshal(data, &p); err != nil {
		t.Error(err)
	}
	if err := CheckAndSetDefaults(&p); err != nil {
		t.Error(err)
	}
	expected := testParam{
		UID:       1,
		Username:  "daemon",
		Operation: &nestedTestParam{Name: "start", Timeout: &Timeout{30 * time.Second}},
	}
	if diff := cmp.Diff(expected, p); diff != "" {
		t.Errorf("param mismatch (-want +got):\n%s", diff)
	}
}

func TestPartialParamValidation(t *testing.T) {
	data := []byte(`{"uid":1}`)
	var p testParam
	if err := json.Unmarshal(data, &p); err != nil {
		t.Error(err)
	}
	if err := CheckAndSetDefaults(&p); err != nil {
		t.Error(err)
	}
	expected := testParam{UID: 1, Username: "daemon"}
	if diff := cmp.Diff(expected, p); diff != "" {
		t.Errorf("param mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidUIDParamValidation(t *testing.T) {
	data := []byte(`{"uid":1000,"user":"centos"}`)
	var p testParam
	if err := json.Unmarshal(data, &p); err != nil {
		t.Error(err)
	}
	err := CheckAndSetDefaults(&p)
	if err == nil {
		t.Error("expected an error")
	}
	if !trace.IsBadParameter(err) {
		t.Errorf("expected a bad parameter error, got %v", err)
	}
}

func TestRequiredNestedField(t *testing.T) {
	data := []byte(`{"uid":1,"operation":{"timeout":"1s"}}`)
	var p testParam
	if err := json.Unmarshal(data, &p); err != nil {
		t.Error(err)
	}
	if err := CheckAndSetDefaults(&p); err == nil {
		t.Error("expected an error for missing operation name")
	}
}

func TestNilableNestedParamDefault(t *testing.T) {
	data := []byte(`{"uid":1,"operation":{"name":"stop"}}`)
	var p testParam
	if err := json.Unmarshal(data, &p); err != nil {
		t.Error(err)
	}
	if err := CheckAndSetDefaults(&p); err != nil {
		t.Error(err)
	}
	expected := testParam{
		UID:       1,
		Username:  "daemon",
		Operation: &nestedTestParam{Name: "stop", Timeout: &Timeout{defaultTimeout}},
	}
	if diff := cmp.Diff(expected, p); diff != "" {
		t.Errorf("param mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFormats(t *testing.T) {
	var testCases = []struct {
		file    string
		content string
	}{
		{"config.json", `{"url":"https://app.example.com","timeout":"40s"}`},
		{"config.yaml", "url: https://app.example.com\ntimeout: 40s\n"},
		{"config.yml", "url: https://app.example.com\ntimeout: 40s\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			path := writeConfig(t, tc.file, tc.content)
			var p loadParam
			if err := Load(path, &p); err != nil {
				t.Fatal(err)
			}
			expected := loadParam{URL: "https://app.example.com", Timeout: Timeout{40 * time.Second}}
			if diff := cmp.Diff(expected, p); diff != "" {
				t.Errorf("param mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "config.json", `{"url":"https://app.example.com"}`)
	t.Setenv("UITEST_CONFIG_TEST_URL", "https://staging.example.com")

	var p loadParam
	if err := Load(path, &p); err != nil {
		t.Fatal(err)
	}
	if p.URL != "https://staging.example.com" {
		t.Errorf("expected environment override, got %q", p.URL)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	var testCases = []struct {
		comment string
		content string
	}{
		{"missing url", `{"timeout":"1s"}`},
		{"malformed url", `{"url":"not a url"}`},
		{"unknown field", `{"url":"https://app.example.com","retries":3}`},
		{"bad timeout", `{"url":"https://app.example.com","timeout":"soon"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.comment, func(t *testing.T) {
			path := writeConfig(t, "config.json", tc.content)
			var p loadParam
			if err := Load(path, &p); err == nil {
				t.Errorf("expected an error for %v", tc.comment)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	var p loadParam
	err := Load(filepath.Join(t.TempDir(), "absent.json"), &p)
	if !trace.IsNotFound(err) {
		t.Errorf("expected a not found error, got %v", err)
	}
}

func writeConfig(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
