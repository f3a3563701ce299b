package types

// Binding is the sum type a query result binds a variable to. The source
// system mixed plain symbols and "maps with .answer" duck-typed ad hoc;
// §9 calls for a proper sum type instead: a Binding is either a Raw symbol
// or an Answer record carrying an answer symbol and an optional value.
type Binding interface {
	isBinding()
}

// RawBinding is a variable bound directly to a symbol.
type RawBinding struct {
	Symbol Symbol `json:"symbol"`
}

func (RawBinding) isBinding() {}

// AnswerBinding is a variable bound to an answer symbol, optionally paired
// with a supporting value (e.g. the object of the fact that produced it).
type AnswerBinding struct {
	Answer Symbol `json:"answer"`
	Value  Symbol `json:"value,omitempty"`
}

func (AnswerBinding) isBinding() {}

// AnswerOf extracts the answer symbol from a Binding, regardless of which
// variant it is. Raw bindings answer with their own symbol.
func AnswerOf(b Binding) (Symbol, bool) {
	switch v := b.(type) {
	case RawBinding:
		return v.Symbol, true
	case AnswerBinding:
		return v.Answer, true
	default:
		return "", false
	}
}
