package config

import "fmt"

// InvalidError reports a ConfigInvalid condition (spec §7): an
// out-of-range numeric option or an unrecognized enum tag. It is
// raised at load time, never inside the shaping engine.
type InvalidError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("config: %s=%v invalid: %s", e.Field, e.Value, e.Reason)
}

var enumDomains = map[string][]string{
	"newline_style":            {"Auto", "Native", "Unix", "Windows"},
	"indent_style":             {"Block", "Visual"},
	"use_small_heuristics":     {"Default", "Off", "Max"},
	"binop_separator":          {"Front", "Back"},
	"trailing_comma":           {"Always", "Never", "Vertical"},
	"brace_style":              {"SameLineWhere", "AlwaysNextLine", "PreferSameLine"},
	"control_brace_style":      {"AlwaysSameLine", "AlwaysNextLine", "ClosingNextLine"},
	"imports_indent":           {"Block", "Visual"},
	"imports_layout":           {"Horizontal", "HorizontalVertical", "Mixed", "Vertical"},
	"fn_args_density":          {"Compressed", "Tall", "Vertical"},
	"type_punctuation_density": {"Wide", "Compressed"},
	"edition":                  {"E1", "E2"},
	"version":                  {"One", "Two"},
}

// Validate range-checks numeric options and enum tags, returning an
// *InvalidError for the first problem found.
func (c *Config) Validate() error {
	if c.MaxWidth == 0 {
		return &InvalidError{Field: "max_width", Value: c.MaxWidth, Reason: "must be greater than zero"}
	}
	if c.TabSpaces == 0 {
		return &InvalidError{Field: "tab_spaces", Value: c.TabSpaces, Reason: "must be greater than zero"}
	}
	if c.CommentWidth == 0 {
		return &InvalidError{Field: "comment_width", Value: c.CommentWidth, Reason: "must be greater than zero"}
	}
	if c.BlankLinesLowerBound > c.BlankLinesUpperBound {
		return &InvalidError{
			Field:  "blank_lines_lower_bound",
			Value:  c.BlankLinesLowerBound,
			Reason: fmt.Sprintf("must be <= blank_lines_upper_bound (%d)", c.BlankLinesUpperBound),
		}
	}

	checks := []struct {
		field string
		value string
	}{
		{"newline_style", c.NewlineStyle},
		{"indent_style", c.IndentStyle},
		{"use_small_heuristics", c.UseSmallHeuristics},
		{"binop_separator", c.BinopSeparator},
		{"trailing_comma", c.TrailingComma},
		{"brace_style", c.BraceStyle},
		{"control_brace_style", c.ControlBraceStyle},
		{"imports_indent", c.ImportsIndent},
		{"imports_layout", c.ImportsLayout},
		{"fn_args_density", c.FnArgsDensity},
		{"type_punctuation_density", c.TypePunctuationDensity},
		{"edition", c.Edition},
		{"version", c.Version},
	}
	for _, chk := range checks {
		if !oneOf(chk.value, enumDomains[chk.field]) {
			return &InvalidError{Field: chk.field, Value: chk.value, Reason: fmt.Sprintf("must be one of %v", enumDomains[chk.field])}
		}
	}
	return nil
}

func oneOf(v string, domain []string) bool {
	for _, d := range domain {
		if v == d {
			return true
		}
	}
	return false
}
