// Package report renders experiment results as text, JSON or MessagePack.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aristath/grouprep/internal/experiment"
	"github.com/vmihailenco/msgpack/v5"
)

// Format selects the output encoding.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat maps a flag or env value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatMsgpack:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Writer encodes results onto an io.Writer.
type Writer struct {
	out    io.Writer
	format Format
}

// NewWriter creates a writer for format.
func NewWriter(out io.Writer, format Format) (*Writer, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if format == "" {
		format = FormatText
	}
	return &Writer{out: out, format: format}, nil
}

// Write encodes res.
func (w *Writer) Write(res *experiment.Result) error {
	if res == nil {
		return errors.New("nil result")
	}

	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to encode json report: %w", err)
		}
		return nil
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w.out).Encode(res); err != nil {
			return fmt.Errorf("failed to encode msgpack report: %w", err)
		}
		return nil
	default:
		return writeText(w.out, res)
	}
}
