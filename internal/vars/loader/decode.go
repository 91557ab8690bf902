package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-mdtemplate/pkg/vars"
)

// decode parses a source and returns its top-level keys. A root that is not
// an object yields nil values and no error.
func decode(location string, data []byte) (map[string]any, error) {
	var (
		root any
		err  error
	)
	switch vars.FormatFor(location) {
	case vars.FormatYAML:
		root, err = decodeYAML(data)
	default:
		root, err = decodeJSON(data)
	}
	if err != nil {
		return nil, err
	}

	obj, ok := normalize(root).(map[string]any)
	if !ok {
		return nil, nil
	}
	return obj, nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("unexpected end of input")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return root, nil
}

func decodeYAML(data []byte) (any, error) {
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return root, nil
}

// normalize makes decoded values print the way they were written: integral
// numbers become int64, other numbers keep their literal text, and YAML maps
// with non-string keys get stringified keys.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = normalize(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range v {
			v[i] = normalize(item)
		}
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		return v
	case int:
		return int64(v)
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int64(v)
		}
		return json.Number(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return v
	}
}
