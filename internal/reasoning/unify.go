package reasoning

import "hdcreason/internal/types"

// env is a variable binding environment. Bindings may chain (a var bound to
// another var); resolve follows the chain to a final value.
type env map[types.Symbol]types.Symbol

func (e env) clone() env {
	cp := make(env, len(e))
	for k, v := range e {
		cp[k] = v
	}
	return cp
}

// resolve follows variable bindings in e until it reaches a constant or an
// unbound variable.
func resolve(s types.Symbol, e env) types.Symbol {
	for s.IsVariable() {
		next, ok := e[s]
		if !ok || next == s {
			return s
		}
		s = next
	}
	return s
}

// unify attempts to make a and b equal under e, extending e in place.
// Either side may be a variable; two distinct constants never unify.
func unify(a, b types.Symbol, e env) bool {
	ra, rb := resolve(a, e), resolve(b, e)
	if ra == rb {
		return true
	}
	if ra.IsVariable() {
		e[ra] = rb
		return true
	}
	if rb.IsVariable() {
		e[rb] = ra
		return true
	}
	return false
}

// unifyArgs unifies two equal-length argument lists positionally, on a
// clone of e so a failed attempt never leaves partial bindings behind.
func unifyArgs(a, b []types.Symbol, e env) (env, bool) {
	if len(a) != len(b) {
		return nil, false
	}
	out := e.clone()
	for i := range a {
		if !unify(a[i], b[i], out) {
			return nil, false
		}
	}
	return out, true
}

// unifyPred unifies two predicate expressions (same relation, equal arity).
func unifyPred(a, b *types.Expr, e env) (env, bool) {
	if a.Op != types.OpPred || b.Op != types.OpPred || a.Relation != b.Relation {
		return nil, false
	}
	return unifyArgs(a.Args, b.Args, e)
}

// substitute returns a copy of expr with every variable argument resolved
// through e. Unbound variables are left as-is.
func substitute(expr *types.Expr, e env) *types.Expr {
	if expr == nil {
		return nil
	}
	switch expr.Op {
	case types.OpPred:
		args := make([]types.Symbol, len(expr.Args))
		for i, a := range expr.Args {
			if a.IsVariable() {
				args[i] = resolve(a, e)
			} else {
				args[i] = a
			}
		}
		return types.Pred(expr.Relation, args...)
	default:
		children := make([]*types.Expr, len(expr.Children))
		for i, c := range expr.Children {
			children[i] = substitute(c, e)
		}
		return &types.Expr{Op: expr.Op, Children: children}
	}
}

// isGround reports whether expr contains no unbound variable arguments.
func isGround(expr *types.Expr) bool {
	if expr == nil {
		return true
	}
	if expr.Op == types.OpPred {
		for _, a := range expr.Args {
			if a.IsVariable() {
				return false
			}
		}
		return true
	}
	for _, c := range expr.Children {
		if !isGround(c) {
			return false
		}
	}
	return true
}
