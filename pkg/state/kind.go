package state

// Kind discriminates the three member shapes a form bag can hold.
type Kind uint8

const (
	// KindField is a single leaf input.
	KindField Kind = iota + 1
	// KindGroup is a named mapping of leaf inputs.
	KindGroup
	// KindList is an ordered list of records of leaf inputs.
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindGroup:
		return "group"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Node is implemented by every value that can sit in a form bag.
type Node interface {
	Kind() Kind
}
