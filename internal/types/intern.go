package types

import "sync"

// StringInterner deduplicates repeatedly-seen strings so the many facts
// sharing the same relation or concept label don't each carry a distinct
// string header.
type StringInterner struct {
	mu      sync.RWMutex
	strings map[string]string // canonical string -> itself
}

// symbolInterner is shared by every session's Symbol interning; it holds no
// session-specific state (just canonical string bodies) so sharing it across
// sessions is safe.
var symbolInterner = NewStringInterner()

// NewStringInterner creates a new string interner.
func NewStringInterner() *StringInterner {
	return &StringInterner{
		strings: make(map[string]string, 100),
	}
}

// Intern returns the canonical instance of the string. If the string hasn't
// been seen before, it's added to the intern pool.
func (si *StringInterner) Intern(s string) string {
	if s == "" {
		return ""
	}

	si.mu.RLock()
	if canonical, exists := si.strings[s]; exists {
		si.mu.RUnlock()
		return canonical
	}
	si.mu.RUnlock()

	si.mu.Lock()
	defer si.mu.Unlock()

	if canonical, exists := si.strings[s]; exists {
		return canonical
	}

	si.strings[s] = s
	return s
}

// InternSymbol interns a Symbol through the shared interner, so the same
// relation or concept label read from many lines of DSL shares one backing
// string.
func InternSymbol(s Symbol) Symbol {
	return Symbol(symbolInterner.Intern(string(s)))
}

// Size returns the number of interned strings.
func (si *StringInterner) Size() int {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return len(si.strings)
}

// Clear removes all interned strings (useful for testing).
func (si *StringInterner) Clear() {
	si.mu.Lock()
	defer si.mu.Unlock()
	si.strings = make(map[string]string, 100)
}
