package plan

import (
	"errors"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "3s" or "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return errors.Join(ErrInvalidPlan, err)
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Join(ErrInvalidPlan, err)
	}

	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load parses a YAML plan from r. Fields absent from the document fall
// back to the [Default] plan, so a file can override just the waves it
// cares about.
func Load(r io.Reader) (Plan, error) {
	p := Default()

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return Default(), nil
		}
		return Plan{}, errors.Join(ErrInvalidPlan, err)
	}

	return p, nil
}

// LoadFile parses a YAML plan from the file at path.
func LoadFile(path string) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, errors.Join(ErrInvalidPlan, err)
	}
	defer f.Close()

	return Load(f)
}
