package config

// IsValid reports whether f is a known output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatJSON, FormatSARIF, FormatSExpr, FormatSummary:
		return true
	default:
		return false
	}
}

// IsValid reports whether f is a known Markdown flavor.
func (f Flavor) IsValid() bool {
	return f == FlavorCommonMark || f == FlavorGFM
}

// IsValid reports whether m is a known color mode.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}
