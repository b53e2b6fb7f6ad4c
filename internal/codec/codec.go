// Package codec converts records to and from their on-disk JSON form.
//
// Output is indented for human inspection, HTML characters are written
// verbatim, and nil slices or pointers encode as null rather than being
// omitted. Large numeric fields are expected to carry a ",string" tag on the
// model so they survive consumers that parse numbers as float64.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/pretty"
)

// ErrMalformed is returned when input cannot be decoded into the target type
var ErrMalformed = errors.New("malformed record")

// Codec is safe for concurrent use.
type Codec struct {
	opts *pretty.Options
}

// New returns a codec using two-space indentation
func New() *Codec {
	return &Codec{
		opts: &pretty.Options{
			Width:    80,
			Prefix:   "",
			Indent:   "  ",
			SortKeys: false,
		},
	}
}

// Marshal encodes v as indented JSON terminated by a newline
func (c *Codec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return pretty.PrettyOptions(buf.Bytes(), c.opts), nil
}

// Unmarshal decodes data into v. Any failure wraps ErrMalformed.
func (c *Codec) Unmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty input", ErrMalformed)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
