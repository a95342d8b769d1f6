package model

// Label is the closed set of verdict categories
type Label string

const (
	LabelScam          Label = "scam"
	LabelUntrustworthy Label = "untrustworthy"
	LabelOverpriced    Label = "overpriced"
	LabelGoodProduct   Label = "good product"
)

// Labels lists every valid label in prompt order
func Labels() []Label {
	return []Label{LabelScam, LabelUntrustworthy, LabelOverpriced, LabelGoodProduct}
}

// Valid reports whether l is one of the four enumerated labels.
// Matching is exact: "Scam" or "good" are not valid.
func (l Label) Valid() bool {
	switch l {
	case LabelScam, LabelUntrustworthy, LabelOverpriced, LabelGoodProduct:
		return true
	default:
		return false
	}
}

// Verdict is the synthesized trust outcome for a listing
type Verdict struct {
	Label  Label  `json:"label"`
	Reason string `json:"reason"`
}
