// Package config defines the configuration record for tidyfmt and its
// default values. The shaping engine itself never loads a config file;
// it receives a finalized *Config, exactly as spec'd.
package config

// Config is the top-level, flat configuration record the core reads.
// Every field below corresponds to one row of the config table; there
// is no nesting the way the teacher's Formatter/Lint split had, because
// this engine has one concern (shaping), not a linter bolted on.
type Config struct {
	MaxWidth  uint32 `yaml:"max_width"`
	TabSpaces uint32 `yaml:"tab_spaces"`
	HardTabs  bool   `yaml:"hard_tabs"`

	NewlineStyle       string `yaml:"newline_style"`        // Auto|Native|Unix|Windows
	IndentStyle        string `yaml:"indent_style"`         // Block|Visual
	UseSmallHeuristics string `yaml:"use_small_heuristics"` // Default|Off|Max
	BinopSeparator     string `yaml:"binop_separator"`      // Front|Back

	CombineControlExpr      bool   `yaml:"combine_control_expr"`
	TrailingComma           string `yaml:"trailing_comma"` // Always|Never|Vertical
	MatchBlockTrailingComma bool   `yaml:"match_block_trailing_comma"`

	BraceStyle          string `yaml:"brace_style"`         // SameLineWhere|AlwaysNextLine|PreferSameLine
	ControlBraceStyle   string `yaml:"control_brace_style"` // AlwaysSameLine|AlwaysNextLine|ClosingNextLine
	EmptyItemSingleLine bool   `yaml:"empty_item_single_line"`
	FnSingleLine        bool   `yaml:"fn_single_line"`
	WhereSingleLine     bool   `yaml:"where_single_line"`

	ImportsIndent    string `yaml:"imports_indent"` // Block|Visual
	ImportsLayout    string `yaml:"imports_layout"` // Horizontal|HorizontalVertical|Mixed|Vertical
	MergeImports     bool   `yaml:"merge_imports"`
	ReorderImports   bool   `yaml:"reorder_imports"`
	ReorderModules   bool   `yaml:"reorder_modules"`
	ReorderImplItems bool   `yaml:"reorder_impl_items"`

	WrapComments           bool   `yaml:"wrap_comments"`
	CommentWidth           uint32 `yaml:"comment_width"`
	NormalizeComments      bool   `yaml:"normalize_comments"`
	NormalizeDocAttributes bool   `yaml:"normalize_doc_attributes"`

	FormatStrings       bool `yaml:"format_strings"`
	FormatMacroBodies   bool `yaml:"format_macro_bodies"`
	FormatMacroMatchers bool `yaml:"format_macro_matchers"`

	ForceExplicitAbi         bool `yaml:"force_explicit_abi"`
	CondenseWildcardSuffixes bool `yaml:"condense_wildcard_suffixes"`
	RemoveNestedParens       bool `yaml:"remove_nested_parens"`
	UseFieldInitShorthand    bool `yaml:"use_field_init_shorthand"`
	UseTryShorthand          bool `yaml:"use_try_shorthand"`
	TrailingSemicolon        bool `yaml:"trailing_semicolon"`

	BlankLinesUpperBound uint32 `yaml:"blank_lines_upper_bound"`
	BlankLinesLowerBound uint32 `yaml:"blank_lines_lower_bound"`

	FnArgsDensity             string `yaml:"fn_args_density"` // Compressed|Tall|Vertical
	StructFieldAlignThreshold uint32 `yaml:"struct_field_align_threshold"`
	EnumDiscrimAlignThreshold uint32 `yaml:"enum_discrim_align_threshold"`
	ForceMultilineBlocks      bool   `yaml:"force_multiline_blocks"`
	OverflowDelimitedExpr     bool   `yaml:"overflow_delimited_expr"`

	SpacesAroundRanges     bool   `yaml:"spaces_around_ranges"`
	SpaceAfterColon        bool   `yaml:"space_after_colon"`
	SpaceBeforeColon       bool   `yaml:"space_before_colon"`
	TypePunctuationDensity string `yaml:"type_punctuation_density"` // Wide|Compressed
	MatchArmBlocks         bool   `yaml:"match_arm_blocks"`

	DisableAllFormatting bool   `yaml:"disable_all_formatting"`
	SkipChildren         bool   `yaml:"skip_children"`
	Edition              string `yaml:"edition"` // E1|E2
	Version              string `yaml:"version"` // One|Two

	Ignore              []string `yaml:"ignore"`
	RequiredVersion     string   `yaml:"required_version"`
	HideParseErrors     bool     `yaml:"hide_parse_errors"`
	ErrorOnLineOverflow bool     `yaml:"error_on_line_overflow"`
	ErrorOnUnformatted  bool     `yaml:"error_on_unformatted"`
	LicenseTemplatePath string   `yaml:"license_template_path"`

	// Domain-stack additions (SPEC_FULL.md §7); neither changes the
	// shaping engine's layout decisions.
	TodoMarkers         []string `yaml:"todo_markers"`
	EmitDiagnosticsJSON bool     `yaml:"emit_diagnostics_json"`
}

// DefaultConfig returns the out-of-the-box record; every enum-valued
// field holds one of the spellings listed for it in enumDomains (not
// necessarily the first one), so the record passes Validate unchanged.
func DefaultConfig() *Config {
	return &Config{
		MaxWidth:  100,
		TabSpaces: 4,
		HardTabs:  false,

		NewlineStyle:       "Auto",
		IndentStyle:        "Block",
		UseSmallHeuristics: "Default",
		BinopSeparator:     "Front",

		CombineControlExpr:      true,
		TrailingComma:           "Vertical",
		MatchBlockTrailingComma: false,

		BraceStyle:          "SameLineWhere",
		ControlBraceStyle:   "AlwaysSameLine",
		EmptyItemSingleLine: true,
		FnSingleLine:        false,
		WhereSingleLine:     false,

		ImportsIndent:    "Block",
		ImportsLayout:    "Mixed",
		MergeImports:     false,
		ReorderImports:   true,
		ReorderModules:   true,
		ReorderImplItems: false,

		WrapComments:           false,
		CommentWidth:           80,
		NormalizeComments:      false,
		NormalizeDocAttributes: false,

		FormatStrings:       false,
		FormatMacroBodies:   true,
		FormatMacroMatchers: true,

		ForceExplicitAbi:         true,
		CondenseWildcardSuffixes: false,
		RemoveNestedParens:       true,
		UseFieldInitShorthand:    false,
		UseTryShorthand:          false,
		TrailingSemicolon:        true,

		BlankLinesUpperBound: 1,
		BlankLinesLowerBound: 0,

		FnArgsDensity:             "Tall",
		StructFieldAlignThreshold: 0,
		EnumDiscrimAlignThreshold: 0,
		ForceMultilineBlocks:      false,
		OverflowDelimitedExpr:     false,

		SpacesAroundRanges:     false,
		SpaceAfterColon:        true,
		SpaceBeforeColon:       false,
		TypePunctuationDensity: "Wide",
		MatchArmBlocks:         true,

		DisableAllFormatting: false,
		SkipChildren:         false,
		Edition:              "E2",
		Version:              "Two",

		Ignore:              nil,
		RequiredVersion:     "",
		HideParseErrors:     false,
		ErrorOnLineOverflow: false,
		ErrorOnUnformatted:  false,
		LicenseTemplatePath: "",

		TodoMarkers:         []string{"TODO", "FIXME"},
		EmitDiagnosticsJSON: false,
	}
}
