package docgen

import (
	"fmt"
	"strings"
)

// NormalizeFormat coerces format values into known aliases with defaults applied.
func NormalizeFormat(format Format) Format {
	normalized := strings.ToLower(strings.TrimSpace(string(format)))
	switch normalized {
	case "", string(FormatPDF):
		return FormatPDF
	case "jpg", string(FormatJPEG):
		return FormatJPEG
	default:
		return Format(normalized)
	}
}

// ParseFormat normalizes a format and rejects unsupported values.
func ParseFormat(raw string) (Format, error) {
	format := NormalizeFormat(Format(raw))
	switch format {
	case FormatPDF, FormatPNG, FormatJPEG:
		return format, nil
	default:
		return "", NewValidationError(fmt.Sprintf("unsupported output format %q", raw), "output_format")
	}
}

// IsRaster reports whether the format is an image format.
func (f Format) IsRaster() bool {
	return f == FormatPNG || f == FormatJPEG
}

// Extension returns the file extension used for the format.
func (f Format) Extension() string {
	return string(NormalizeFormat(f))
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch NormalizeFormat(f) {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
