// Package buildmeta renders the generated config module read by the server at startup.
package buildmeta

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MetaWriter = (*Writer)(nil)

const moduleTemplate = `#
# THIS FILE HAS BEEN AUTOMATICALLY GENERATED.
#

PG_CONFIG_PATH = {{ pystr .ToolPath }}
RUNSTATE_DIR = {{ pystr .RuntimeDir }}
SHARED_DATA_DIR = {{ pystr .SharedDir }}
VERSION = {{ pyversion .Version }}
`

var moduleTmpl = template.Must(template.New("buildmeta").Funcs(template.FuncMap{
	"pystr":     pyStr,
	"pyversion": pyVersion,
}).Parse(moduleTemplate))

// Writer emits the config module as Python source.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Render returns the module source for meta.
func (w *Writer) Render(meta domain.BuildMeta) ([]byte, error) {
	var buf bytes.Buffer
	if err := moduleTmpl.Execute(&buf, meta); err != nil {
		return nil, zerr.Wrap(err, "render build metadata")
	}
	return buf.Bytes(), nil
}

// Write renders meta to path, creating parent directories as needed.
func (w *Writer) Write(path string, meta domain.BuildMeta) error {
	content, err := w.Render(meta)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return domain.WrapIO(err, "failed to create build metadata directory", dir)
	}
	if err := os.WriteFile(path, content, domain.FilePerm); err != nil { //nolint:gosec // generated module must be importable
		return domain.WrapIO(err, "failed to write build metadata", path)
	}
	return nil
}

// pyStr renders s as a Python string literal. Empty values render as None.
func pyStr(s string) string {
	if s == "" {
		return "None"
	}

	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			b.WriteString(`\x`)
			h := strconv.FormatInt(int64(r), 16)
			if len(h) < 2 {
				b.WriteByte('0')
			}
			b.WriteString(h)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

// pyTuple renders already-formatted items as a Python tuple literal.
func pyTuple(items []string) string {
	switch len(items) {
	case 0:
		return "()"
	case 1:
		return "(" + items[0] + ",)"
	default:
		return "(" + strings.Join(items, ", ") + ")"
	}
}

// pyVersion renders (major, minor, stage, stage_no, (local...)).
func pyVersion(v domain.Version) string {
	local := make([]string, len(v.Local))
	for i, part := range v.Local {
		local[i] = pyStr(part)
	}
	return pyTuple([]string{
		strconv.Itoa(v.Major),
		strconv.Itoa(v.Minor),
		strconv.Itoa(domain.StageCode(v.Stage)),
		strconv.Itoa(v.StageNo),
		pyTuple(local),
	})
}
