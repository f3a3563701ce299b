package reasoning

import (
	"sort"
	"strings"

	"hdcreason/internal/types"
)

// Query implements §4.7.4: find every binding environment under which the
// (possibly variable-carrying) goal line is provable.
func (r *Reasoner) Query(goalLine string, opts Options) *types.ReasoningResult {
	goal := parseGoalLine(goalLine)
	if goal == nil || goal.Op != types.OpPred {
		return &types.ReasoningResult{Error: "invalid_goal:empty"}
	}

	budget := newBudget(opts.Timeout)
	if budget.expired() {
		return &types.ReasoningResult{Error: "timeout"}
	}

	var all []types.Match
	seen := map[string]bool{}

	add := func(e env) {
		m := bindingsFor(goal, e)
		key := matchKey(m)
		if seen[key] {
			return
		}
		seen[key] = true
		all = append(all, m)
	}

	for _, e := range r.directFactQuery(goal) {
		add(e)
	}
	for _, e := range r.ruleQuery(goal, env{}, budget, r.MaxChainDepth) {
		add(e)
	}

	sort.Slice(all, func(i, j int) bool { return matchKey(all[i]) < matchKey(all[j]) })

	return &types.ReasoningResult{
		Success:    len(all) > 0,
		Matches:    all,
		AllResults: all,
	}
}

// directFactQuery unifies the goal pattern against every fact sharing its
// relation (§4.7.4 step 1). Facts below POSSIBLE or soft-deleted never
// match.
func (r *Reasoner) directFactQuery(goal *types.Expr) []env {
	var out []env
	for _, f := range r.effectiveSnapshotFacts() {
		if f.Deleted || f.Relation != goal.Relation || f.Existence < types.Possible {
			continue
		}
		factArgs := factArgSymbols(f)
		if len(factArgs) != len(goal.Args) {
			continue
		}
		e, ok := unifyArgs(goal.Args, factArgs, env{})
		if !ok {
			continue
		}
		out = append(out, e)
	}
	return out
}

func factArgSymbols(f *types.Fact) []types.Symbol {
	args := []types.Symbol{f.Subject, f.Object}
	args = append(args, f.Extra...)
	return args
}

// ruleQuery threads a binding environment backwards through rule premises,
// à la resolution (§4.7.4 step 2). Each successful premise proof under a
// candidate conclusion-unification yields one more binding. depth bounds
// recursive rule application regardless of variable renaming, since
// Rule.Rename gives every attempt fresh variable names and so a purely
// string-keyed cycle guard would never repeat for an ungrounded recursive
// rule.
func (r *Reasoner) ruleQuery(goal *types.Expr, e env, budget *proofBudget, depth int) []env {
	if budget.expired() || depth <= 0 {
		return nil
	}
	var out []env
	for _, rule := range r.rules {
		if rule.Conclusion == nil || rule.Conclusion.Op != types.OpPred {
			continue
		}
		renamed := rule.Rename(renameSuffix(budget))
		u, matched := unifyPred(renamed.Conclusion, goal, e.clone())
		if !matched {
			continue
		}
		for _, bound := range r.resolvePremise(renamed.Premise, u, budget, depth-1) {
			out = append(out, bound)
		}
	}
	return out
}

// resolvePremise proves a premise tree under a threaded environment,
// returning every binding environment that satisfies it.
func (r *Reasoner) resolvePremise(expr *types.Expr, e env, budget *proofBudget, depth int) []env {
	if budget.expired() || depth <= 0 {
		return nil
	}
	switch expr.Op {
	case types.OpPred:
		return r.resolvePred(expr, e, budget, depth)
	case types.OpAnd:
		envs := []env{e}
		for _, c := range expr.Children {
			var next []env
			for _, cur := range envs {
				next = append(next, r.resolvePremise(c, cur, budget, depth)...)
			}
			envs = next
			if len(envs) == 0 {
				return nil
			}
		}
		return envs
	case types.OpOr:
		var out []env
		for _, c := range expr.Children {
			out = append(out, r.resolvePremise(c, e, budget, depth)...)
		}
		return out
	case types.OpNot:
		grounded := substitute(expr.Children[0], e)
		if !isGround(grounded) {
			return nil
		}
		if _, ok := r.directLookupNegated(grounded); ok {
			return []env{e}
		}
		if r.ClosedWorldAssumption {
			budget2 := newBudget(0)
			budget2.renameCounter = budget.renameCounter
			if res := r.proveExpr(grounded, env{}, budget2, false); !res.ok {
				return []env{e}
			}
		}
		return nil
	default:
		return nil
	}
}

func (r *Reasoner) resolvePred(pred *types.Expr, e env, budget *proofBudget, depth int) []env {
	grounded := substitute(pred, e)

	if isGround(grounded) {
		key := goalKey(grounded)
		if budget.visited[key] {
			return nil
		}
		budget.visited[key] = true
		defer delete(budget.visited, key)

		if r.Priority == PriorityHolographic {
			if _, ok := r.holographicPreCheck(grounded); ok {
				return []env{e}
			}
		}

		if _, ok := r.directLookup(grounded); ok {
			return []env{e}
		}
		var out []env
		for _, sub := range r.ruleQuery(grounded, e, budget, depth) {
			out = append(out, sub)
		}
		return out
	}
	var out []env
	for _, factEnv := range r.directFactQuery(grounded) {
		merged, ok := mergeEnv(e, factEnv)
		if ok {
			out = append(out, merged)
		}
	}
	out = append(out, r.ruleQuery(grounded, e, budget, depth)...)
	return out
}

func mergeEnv(a, b env) (env, bool) {
	out := a.clone()
	for k, v := range b {
		if existing, ok := out[k]; ok && existing != v {
			return nil, false
		}
		out[k] = v
	}
	return out, true
}

// bindingsFor extracts, for every variable appearing in goal, its resolved
// value under e as an AnswerBinding (§4.7.5).
func bindingsFor(goal *types.Expr, e env) types.Match {
	bindings := make(map[string]types.Binding)
	for _, v := range goal.Vars() {
		val := resolve(v, e)
		if val.IsVariable() {
			continue
		}
		bindings[string(v)] = types.AnswerBinding{Answer: val}
	}
	return types.Match{Bindings: bindings}
}

func matchKey(m types.Match) string {
	keys := make([]string, 0, len(m.Bindings))
	for k := range m.Bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		if sym, ok := types.AnswerOf(m.Bindings[k]); ok {
			parts[i] = k + "=" + string(sym)
		}
	}
	return strings.Join(parts, ";")
}
