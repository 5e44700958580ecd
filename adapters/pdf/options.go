package docpdf

// ExternalAssetsPolicy controls whether engines may fetch remote assets.
type ExternalAssetsPolicy string

const (
	ExternalAssetsUnspecified ExternalAssetsPolicy = ""
	ExternalAssetsAllow       ExternalAssetsPolicy = "allow"
	ExternalAssetsBlock       ExternalAssetsPolicy = "block"
)

// Options configures page geometry for the print engines.
type Options struct {
	PageSize             string
	Landscape            *bool
	PrintBackground      *bool
	Scale                float64
	MarginTop            string
	MarginBottom         string
	MarginLeft           string
	MarginRight          string
	PreferCSSPageSize    *bool
	BaseURL              string
	ExternalAssetsPolicy ExternalAssetsPolicy
}

// DefaultOptions is an A4 page with 2cm margins.
func DefaultOptions() Options {
	return Options{
		PageSize:        "A4",
		PrintBackground: boolPtr(true),
		MarginTop:       "2cm",
		MarginBottom:    "2cm",
		MarginLeft:      "2cm",
		MarginRight:     "2cm",
	}
}

func mergeOptions(base, override Options) Options {
	merged := base
	if override.PageSize != "" {
		merged.PageSize = override.PageSize
	}
	if override.Landscape != nil {
		merged.Landscape = override.Landscape
	}
	if override.PrintBackground != nil {
		merged.PrintBackground = override.PrintBackground
	}
	if override.Scale != 0 {
		merged.Scale = override.Scale
	}
	if override.MarginTop != "" {
		merged.MarginTop = override.MarginTop
	}
	if override.MarginBottom != "" {
		merged.MarginBottom = override.MarginBottom
	}
	if override.MarginLeft != "" {
		merged.MarginLeft = override.MarginLeft
	}
	if override.MarginRight != "" {
		merged.MarginRight = override.MarginRight
	}
	if override.PreferCSSPageSize != nil {
		merged.PreferCSSPageSize = override.PreferCSSPageSize
	}
	if override.BaseURL != "" {
		merged.BaseURL = override.BaseURL
	}
	if override.ExternalAssetsPolicy != "" {
		merged.ExternalAssetsPolicy = override.ExternalAssetsPolicy
	}
	return merged
}

func boolPtr(value bool) *bool {
	return &value
}
