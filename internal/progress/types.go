package progress

// TerminalCapabilities describes what the output terminal supports.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols are the glyphs used for status lines.
type ProgressSymbols struct {
	Checkmark string
	Failure   string
	// SpinnerSet indexes briandowns/spinner CharSets.
	SpinnerSet int
}
