package types

import "strings"

// ExprOp names the operator at an Expr node.
type ExprOp string

const (
	OpAnd     ExprOp = "And"
	OpOr      ExprOp = "Or"
	OpNot     ExprOp = "Not"
	OpImplies ExprOp = "Implies"
	OpPred    ExprOp = "Pred" // <relation>(args...)
)

// Expr is a node in a rule's premise or conclusion expression tree. Rules
// are stored with explicit operator nodes (And/Or/Not/Implies/Pred) rather
// than a class hierarchy, per the flattened-strategy redesign note applied
// uniformly across the data model.
type Expr struct {
	Op       ExprOp   `json:"op"`
	Children []*Expr  `json:"children,omitempty"` // And/Or/Not/Implies operands
	Relation Symbol   `json:"relation,omitempty"` // Pred only
	Args     []Symbol `json:"args,omitempty"`     // Pred only
}

// Pred builds a predicate node `relation(args...)`.
func Pred(relation Symbol, args ...Symbol) *Expr {
	return &Expr{Op: OpPred, Relation: relation, Args: args}
}

// And builds a conjunction node.
func And(children ...*Expr) *Expr { return &Expr{Op: OpAnd, Children: children} }

// Or builds a disjunction node.
func Or(children ...*Expr) *Expr { return &Expr{Op: OpOr, Children: children} }

// Not builds a negation node.
func Not(child *Expr) *Expr { return &Expr{Op: OpNot, Children: []*Expr{child}} }

// String renders a canonical, deterministic textual form of the expression,
// used both for debugging and for the reasoner's lexicographic tie-break
// canonicalisation (§4.7.3 rule 6).
func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	switch e.Op {
	case OpPred:
		var b strings.Builder
		b.WriteString(string(e.Relation))
		b.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(string(a))
		}
		b.WriteByte(')')
		return b.String()
	case OpNot:
		return "Not(" + e.Children[0].String() + ")"
	case OpAnd, OpOr, OpImplies:
		parts := make([]string, len(e.Children))
		for i, c := range e.Children {
			parts[i] = c.String()
		}
		return string(e.Op) + "(" + strings.Join(parts, ",") + ")"
	default:
		return "?"
	}
}

// Vars returns the distinct variable symbols appearing anywhere in the
// expression, in first-occurrence order.
func (e *Expr) Vars() []Symbol {
	var out []Symbol
	seen := map[Symbol]bool{}
	var walk func(*Expr)
	walk = func(n *Expr) {
		if n == nil {
			return
		}
		if n.Op == OpPred {
			for _, a := range n.Args {
				if a.IsVariable() && !seen[a] {
					seen[a] = true
					out = append(out, a)
				}
			}
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(e)
	return out
}

// Rule is `(premise, conclusion)` where each side is an expression tree.
// Variables appearing as `?x` tokens scope to the rule instance: each
// backward-chaining attempt renames them fresh so recursive rule use never
// aliases bindings across attempts.
type Rule struct {
	ID          string `json:"id"`
	Premise     *Expr  `json:"premise"`
	Conclusion  *Expr  `json:"conclusion"`
	Transitive  bool   `json:"transitive,omitempty"`
	Symmetric   bool   `json:"symmetric,omitempty"`
	Functional  bool   `json:"functional,omitempty"`
}

// Rename returns a copy of the rule with every variable symbol replaced per
// the given suffix, so two concurrent attempts to apply the same rule never
// share a binding environment.
func (r *Rule) Rename(suffix string) *Rule {
	mapping := map[Symbol]Symbol{}
	var rn func(*Expr) *Expr
	rn = func(n *Expr) *Expr {
		if n == nil {
			return nil
		}
		cp := &Expr{Op: n.Op, Relation: n.Relation}
		if n.Op == OpPred {
			cp.Args = make([]Symbol, len(n.Args))
			for i, a := range n.Args {
				if a.IsVariable() {
					if mapped, ok := mapping[a]; ok {
						cp.Args[i] = mapped
					} else {
						mapped = Symbol(string(a) + suffix)
						mapping[a] = mapped
						cp.Args[i] = mapped
					}
				} else {
					cp.Args[i] = a
				}
			}
			return cp
		}
		cp.Children = make([]*Expr, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = rn(c)
		}
		return cp
	}
	return &Rule{
		ID:         r.ID,
		Premise:    rn(r.Premise),
		Conclusion: rn(r.Conclusion),
		Transitive: r.Transitive,
		Symmetric:  r.Symmetric,
		Functional: r.Functional,
	}
}
