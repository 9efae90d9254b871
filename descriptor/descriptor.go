package descriptor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/tidwall/gjson"
)

// Descriptor describes one agent of a graph.
type Descriptor struct {
	Type          string   `json:"type" jsonschema:"required,minLength=1,description=Agent type name such as PlusAgent or configs.IncAgent"`
	Subscriptions []string `json:"subs,omitempty" jsonschema:"description=Topics the agent subscribes to"`
	Publications  []string `json:"pubs,omitempty" jsonschema:"description=Topics the agent publishes to"`
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s [%s] -> [%s]", d.Type, strings.Join(d.Subscriptions, ","), strings.Join(d.Publications, ","))
}

// FormatError rejects a whole descriptor batch.
type FormatError struct {
	Source string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Source == "" {
		return "invalid descriptors: " + e.Reason
	}
	return fmt.Sprintf("invalid descriptors in %s: %s", e.Source, e.Reason)
}

// MaxLineSize is the longest descriptor line Parse accepts.
const MaxLineSize = 1 << 20

// Parse reads descriptors in the line format. A line count that is not a
// multiple of three is a *FormatError; an empty input yields no descriptors.
func Parse(r io.Reader) ([]Descriptor, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &FormatError{Reason: fmt.Sprintf("line %d is longer than %d bytes", len(lines)+1, MaxLineSize)}
		}
		return nil, err
	}

	if len(lines)%3 != 0 {
		return nil, &FormatError{Reason: fmt.Sprintf("got %d lines, want a multiple of 3", len(lines))}
	}

	descs := make([]Descriptor, 0, len(lines)/3)
	for i := 0; i < len(lines); i += 3 {
		descs = append(descs, Descriptor{
			Type:          strings.TrimSpace(lines[i]),
			Subscriptions: splitNames(lines[i+1]),
			Publications:  splitNames(lines[i+2]),
		})
	}
	return descs, nil
}

// ParseJSON reads descriptors in the JSON format.
func ParseJSON(data []byte) ([]Descriptor, error) {
	if !gjson.ValidBytes(data) {
		return nil, &FormatError{Reason: "malformed json"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, &FormatError{Reason: "want a json array of descriptors"}
	}

	var descs []Descriptor
	var result *multierror.Error
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			result = multierror.Append(result, fmt.Errorf("descriptor %d: want an object", key.Int()))
			return true
		}
		typ := value.Get("type")
		if typ.Type != gjson.String {
			result = multierror.Append(result, fmt.Errorf("descriptor %d: type must be a string", key.Int()))
			return true
		}
		descs = append(descs, Descriptor{
			Type:          strings.TrimSpace(typ.String()),
			Subscriptions: names(value.Get("subs")),
			Publications:  names(value.Get("pubs")),
		})
		return true
	})
	if err := result.ErrorOrNil(); err != nil {
		return nil, &FormatError{Reason: err.Error()}
	}
	return descs, nil
}

// ParseFile reads a descriptor file, choosing the JSON format for .json files.
func ParseFile(path string) ([]Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var descs []Descriptor
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, rerr := io.ReadAll(f)
		if rerr != nil {
			return nil, rerr
		}
		descs, err = ParseJSON(data)
	} else {
		descs, err = Parse(f)
	}

	var fe *FormatError
	if errors.As(err, &fe) {
		fe.Source = path
	}
	return descs, err
}

func splitNames(line string) []string {
	var out []string
	for _, name := range strings.Split(line, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// names accepts either a json array of strings or a comma separated string.
func names(v gjson.Result) []string {
	if !v.Exists() {
		return nil
	}
	if !v.IsArray() {
		return splitNames(v.String())
	}
	var out []string
	for _, item := range v.Array() {
		if name := strings.TrimSpace(item.String()); name != "" {
			out = append(out, name)
		}
	}
	return out
}
