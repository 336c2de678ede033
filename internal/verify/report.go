package verify

// Style hints how a verdict should be presented. Comparison logic stays
// free of console state; the presentation layer decides what a hint looks
// like.
type Style int

const (
	StyleNone Style = iota
	StyleGood
	StyleBad
)

// Verdict is the presentation-neutral outcome of one revision comparison.
type Verdict struct {
	Marker string
	Hint   Style
}

// Verdict renders the result as a verdict plus styling hint.
func (r Result) Verdict() Verdict {
	if r.Matched {
		return Verdict{Marker: "OK", Hint: StyleGood}
	}
	return Verdict{Marker: "MISMATCH", Hint: StyleBad}
}
