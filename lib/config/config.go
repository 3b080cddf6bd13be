package config

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/gravitational/configure"
	"github.com/gravitational/trace"
	"gopkg.in/go-playground/validator.v9"
	"gopkg.in/yaml.v2"
)

// Load reads the configuration file at path into out, applies environment
// overrides declared with `env` field tags and validates the result.
// Files with .yaml or .yml extension are decoded as YAML, anything else as JSON.
// An empty path only applies environment overrides
func Load(path string, out interface{}) error {
	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return trace.ConvertSystemError(err)
		}
		if err := Decode(filepath.Ext(path), data, out); err != nil {
			return trace.Wrap(err, "failed to decode %v", path)
		}
	}
	if err := configure.ParseEnv(out); err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(CheckAndSetDefaults(out))
}

// Decode decodes data into out according to the file extension ext
func Decode(ext string, data []byte, out interface{}) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return trace.BadParameter("invalid YAML: %v", err)
		}
	default:
		d := json.NewDecoder(bytes.NewReader(data))
		d.DisallowUnknownFields()
		if err := d.Decode(out); err != nil {
			return trace.BadParameter("invalid JSON: %v", err)
		}
	}
	return nil
}

type defaulter interface {
	CheckAndSetDefaults() error
}

// CheckAndSetDefaults validates parameters according to struct field tags and
// custom logic specified by implementing the defaulter interface.
func CheckAndSetDefaults(param interface{}) error {
	if err := validate(param); err != nil {
		return trace.Wrap(err)
	}

	if d, ok := param.(defaulter); ok {
		return trace.Wrap(d.CheckAndSetDefaults())
	}
	return nil
}

// validate collects every failed field rule into an aggregate
func validate(param interface{}) error {
	err := validator.New().Struct(param)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return trace.Wrap(err)
	}
	var errs []error
	for _, fieldError := range validationErrors {
		errs = append(errs,
			trace.BadParameter(` * %s="%v" fails "%s"`,
				fieldError.Namespace(), fieldError.Value(), fieldError.Tag()))
	}
	return trace.NewAggregate(errs...)
}
