package docgen

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
)

// DefaultFilenamePattern yields {template}_{YYYYMMDD_HHMMSS}.
const DefaultFilenamePattern = "{{.Template}}_{{.Timestamp}}"

type filenameData struct {
	Template  string
	Format    string
	Timestamp string
	Date      string
}

// FilenameBuilder names rendered documents.
type FilenameBuilder struct {
	Pattern string
	// Unique appends a short random suffix so concurrent renders within the
	// same second do not collide.
	Unique bool
	Now    func() time.Time
	Suffix func() string
}

// Build returns the filename for a render of template in format.
func (b FilenameBuilder) Build(templateName string, format Format) (string, error) {
	pattern := b.Pattern
	if pattern == "" {
		pattern = DefaultFilenamePattern
	}
	now := time.Now()
	if b.Now != nil {
		now = b.Now()
	}

	tmpl, err := template.New("filename").Parse(pattern)
	if err != nil {
		return "", NewError(KindValidation, "invalid filename pattern", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, filenameData{
		Template:  templateName,
		Format:    string(format),
		Timestamp: now.Format("20060102_150405"),
		Date:      now.Format("20060102"),
	}); err != nil {
		return "", NewError(KindInternal, "render filename", err)
	}

	name := path.Base(strings.TrimSpace(buf.String()))
	if name == "" || name == "." || name == "/" {
		return "", NewError(KindValidation, fmt.Sprintf("empty filename for template %q", templateName), nil)
	}
	if b.Unique {
		name += "_" + b.suffix()
	}

	ext := format.Extension()
	if !strings.HasSuffix(strings.ToLower(name), "."+ext) {
		name += "." + ext
	}
	return name, nil
}

func (b FilenameBuilder) suffix() string {
	if b.Suffix != nil {
		return b.Suffix()
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
