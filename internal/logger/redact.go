package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/buger/jsonparser"
)

// Redaction replaces the value of a redacted field.
const Redaction = "***"

// Separator delimits field=value segments in log messages.
const Separator = ";"

// PIIFields are the field names treated as personally identifying.
var PIIFields = []string{"name", "email", "ssn", "phone", "address"}

// FilterDatum replaces the value of every field=value segment of message
// whose field is listed in fields with redaction. Segments are delimited by
// separator or the ends of message; leading blanks of a segment are kept.
// A field with an empty value is left as is.
func FilterDatum(fields []string, redaction, message, separator string) string {
	if len(fields) == 0 || message == "" || separator == "" {
		return message
	}

	segments := strings.Split(message, separator)
	for i, seg := range segments {
		body := strings.TrimLeft(seg, " \t")
		for _, f := range fields {
			if strings.HasPrefix(body, f+"=") && len(body) > len(f)+1 {
				segments[i] = seg[:len(seg)-len(body)] + f + "=" + redaction
				break
			}
		}
	}
	return strings.Join(segments, separator)
}

// FormatRecord renders columns and values as consecutive "col=value;"
// pairs, suitable for FilterDatum. NULL values render empty.
func FormatRecord(columns []string, values []any) string {
	var b strings.Builder
	for i, col := range columns {
		var v any
		if i < len(values) {
			v = values[i]
		}
		if v == nil {
			v = ""
		}
		fmt.Fprintf(&b, "%s=%v%s", col, v, Separator)
	}
	return b.String()
}

// RedactingWriter masks PII in log events before passing them to the
// underlying writer. A field=value pair is redacted wherever the field name
// starts a word, up to the next separator or line end. In JSON events every
// top-level string is filtered that way and top-level PII keys are replaced
// outright; the rest of the event is written byte for byte.
type RedactingWriter struct {
	out     io.Writer
	pii     map[string]struct{}
	pattern *regexp.Regexp
}

// NewRedactingWriter returns a RedactingWriter over out redacting fields.
func NewRedactingWriter(out io.Writer, fields []string) *RedactingWriter {
	pii := make(map[string]struct{}, len(fields))
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		pii[f] = struct{}{}
		quoted = append(quoted, regexp.QuoteMeta(f))
	}
	w := &RedactingWriter{out: out, pii: pii}
	if len(quoted) > 0 {
		sep := regexp.QuoteMeta(Separator)
		w.pattern = regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)=[^` + sep + `\n]+`)
	}
	return w
}

// Write redacts p and writes it to the underlying writer.
// zerolog calls Write once per event.
func (w *RedactingWriter) Write(p []byte) (int, error) {
	if _, err := w.out.Write(w.redact(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

type edit struct {
	key   string
	value []byte
}

func (w *RedactingWriter) redact(p []byte) []byte {
	trimmed := bytes.TrimRight(p, "\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return []byte(w.redactText(string(p)))
	}

	var edits []edit
	err := jsonparser.ObjectEach(trimmed, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		if dataType != jsonparser.String {
			return nil
		}
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil
		}
		next := Redaction
		if _, ok := w.pii[string(key)]; !ok {
			next = w.redactText(s)
		}
		if next != s {
			edits = append(edits, edit{key: string(key), value: quote(next)})
		}
		return nil
	})
	if err != nil {
		return []byte(w.redactText(string(p)))
	}
	if len(edits) == 0 {
		return p
	}

	// jsonparser.Set reuses the backing array of its input.
	out := append([]byte(nil), trimmed...)
	for _, e := range edits {
		if out, err = jsonparser.Set(out, e.value, e.key); err != nil {
			return []byte(w.redactText(string(p)))
		}
	}
	return append(out, p[len(trimmed):]...)
}

func (w *RedactingWriter) redactText(s string) string {
	if w.pattern == nil {
		return s
	}
	return w.pattern.ReplaceAllString(s, "${1}="+Redaction)
}

// quote encodes s as a JSON string without HTML escaping, matching zerolog.
func quote(s string) []byte {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(b.Bytes(), "\n")
}
