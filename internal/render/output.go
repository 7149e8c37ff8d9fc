// Package render serializes comparison results and writes human-readable
// run summaries.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned for an unsupported output format name.
var ErrUnknownFormat = errors.New("unknown output format")

// jsonIndent is the indentation used for pretty-printed JSON.
const jsonIndent = "  "

// Emit serializes result in the given format and writes it to w in one
// piece. The payload is fully built in memory first, so a marshalling
// failure never leaves partial output behind.
func Emit(w io.Writer, result any, format string) error {
	var (
		data       []byte
		marshalErr error
	)

	switch format {
	case FormatJSON:
		data, marshalErr = json.MarshalIndent(result, "", jsonIndent)
	case FormatYAML:
		data, marshalErr = yaml.Marshal(result)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if marshalErr != nil {
		return fmt.Errorf("marshal result: %w", marshalErr)
	}

	if format == FormatJSON {
		data = append(data, '\n')
	}

	_, writeErr := w.Write(data)
	if writeErr != nil {
		return fmt.Errorf("write result: %w", writeErr)
	}

	return nil
}
