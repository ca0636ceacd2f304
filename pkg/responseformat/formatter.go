package responseformat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

// Supported encodings
const (
	FormatJSON    = "json"
	FormatMsgPack = "msgpack"
)

// Formatter handles encoding and writing responses in JSON or MessagePack format
type Formatter struct{}

// NewFormatter creates a new response formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// WriteResponse writes data with the given status. JSON is the default
// format; MessagePack is used when format=msgpack is specified. If data
// cannot be encoded, a 500 with a plain text body is written instead.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, status int, data any) error {
	format := FormatJSON
	if req.URL.Query().Get("format") == FormatMsgPack {
		format = FormatMsgPack
	}

	var buf bytes.Buffer
	if err := f.Encode(&buf, format, data); err != nil {
		http.Error(w, "error encoding response", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", ContentType(format))
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// Encode writes data to w in the named format.
func (f *Formatter) Encode(w io.Writer, format string, data any) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatMsgPack:
		encoder := msgpack.NewEncoder(w)
		encoder.SetCustomStructTag("json") // Use json tags for MessagePack
		return encoder.Encode(data)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	if format == FormatMsgPack {
		return "application/x-msgpack"
	}
	return "application/json"
}
