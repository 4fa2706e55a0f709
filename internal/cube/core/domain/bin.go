package domain

import "strconv"

type BinType string

const (
	BinNotSet   BinType = "not_set"
	BinText     BinType = "text"
	BinIntegral BinType = "integral"
)

type RangeType string

const (
	RangeExact    RangeType = "exact"
	RangeGreater  RangeType = "greater"
	RangeLess     RangeType = "less"
	RangeInterval RangeType = "interval"
)

// Bin is a named match rule. Not-set bins are placeholders and never match.
type Bin struct {
	Name  string    `json:"name"`
	Type  BinType   `json:"type"`
	Range RangeType `json:"range_type,omitempty"`
	Text  string    `json:"text_value,omitempty"`
	A     uint64    `json:"a"`
	B     uint64    `json:"b"`
}

func NotSetBin() Bin {
	return Bin{Name: NotSetBinName, Type: BinNotSet}
}

func TextBin(name, value string) Bin {
	return Bin{Name: name, Type: BinText, Range: RangeExact, Text: value}
}

func ExactBin(v uint64) Bin {
	return Bin{Name: strconv.FormatUint(v, 10), Type: BinIntegral, Range: RangeExact, A: v, B: v}
}

// IntervalBin matches a..b inclusive and degrades to an exact bin when a == b.
func IntervalBin(a, b uint64) Bin {
	if a == b {
		return ExactBin(a)
	}
	name := strconv.FormatUint(a, 10) + " - " + strconv.FormatUint(b, 10)
	return Bin{Name: name, Type: BinIntegral, Range: RangeInterval, A: a, B: b}
}

// GreaterBin matches values strictly above a.
func GreaterBin(a uint64) Bin {
	return Bin{Name: "> " + strconv.FormatUint(a, 10), Type: BinIntegral, Range: RangeGreater, A: a, B: a}
}

// LessBin matches values strictly below b.
func LessBin(b uint64) Bin {
	return Bin{Name: "< " + strconv.FormatUint(b, 10), Type: BinIntegral, Range: RangeLess, A: b, B: b}
}

func (b Bin) MatchText(s string) bool {
	return b.Type == BinText && b.Text == s
}

func (b Bin) MatchValue(v uint64) bool {
	if b.Type != BinIntegral {
		return false
	}
	switch b.Range {
	case RangeExact:
		return v == b.A
	case RangeGreater:
		return v > b.A
	case RangeLess:
		return v < b.B
	case RangeInterval:
		return v >= b.A && v <= b.B
	default:
		return false
	}
}
