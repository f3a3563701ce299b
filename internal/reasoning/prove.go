package reasoning

import (
	"fmt"
	"sort"
	"strings"

	"hdcreason/internal/types"
)

// proofResult is the internal return value of every proveXxx helper: a
// step trace, the minimum existence level among any fact step it used (for
// the tie-break in rule 6), and a pass/fail outcome with reason.
type proofResult struct {
	steps        []types.Step
	minExistence types.Existence
	ok           bool
	reason       string
}

func failure(reason string) proofResult { return proofResult{reason: reason} }

func axiomResult(step types.Step, existence types.Existence) proofResult {
	return proofResult{steps: []types.Step{step}, minExistence: existence, ok: true}
}

// Prove implements §4.7.1/§4.7.3: a single goal line is proved against the
// effective (theory-stack-composed) store view.
func (r *Reasoner) Prove(goalLine string, opts Options) *types.ReasoningResult {
	goal := parseGoalLine(goalLine)
	if goal == nil || goal.Op != types.OpPred {
		return &types.ReasoningResult{Valid: false, Reason: "invalid_goal:empty"}
	}

	budget := newBudget(opts.Timeout)
	if budget.expired() {
		return &types.ReasoningResult{Valid: false, Reason: "timeout"}
	}

	result := r.proveExpr(goal, env{}, budget, opts.IgnoreNegation)
	return r.toReasoningResult(result, opts)
}

func (r *Reasoner) toReasoningResult(res proofResult, opts Options) *types.ReasoningResult {
	out := &types.ReasoningResult{
		Valid:       res.ok,
		Success:     res.ok,
		Reason:      res.reason,
		ProofObject: types.ProofObject{ValidatorOk: res.ok || res.reason == ""},
	}
	if res.ok {
		out.Method = methodFromSteps(res.steps)
		if opts.IncludeSearchTrace {
			out.Steps = res.steps
		} else {
			out.Steps = make([]types.Step, len(res.steps))
		}
		out.ProofObject.ValidatorOk = true
	} else {
		out.ProofObject.ValidatorOk = false
	}
	return out
}

func methodFromSteps(steps []types.Step) string {
	if len(steps) == 0 {
		return "direct"
	}
	last := steps[len(steps)-1]
	switch last.Rule {
	case "axiom":
		return "direct"
	case "transitivity":
		return "transitivity"
	case "default":
		return "default"
	default:
		return "modus_ponens"
	}
}

// ProveCompound implements §4.7.2: each goal line is evaluated
// independently against the same store snapshot, then combined by logic.
func (r *Reasoner) ProveCompound(goals []string, logic string, opts Options) *types.ReasoningResult {
	if len(goals) == 1 {
		return r.Prove(goals[0], opts)
	}

	parts := make([]*types.ReasoningResult, len(goals))
	for i, g := range goals {
		parts[i] = r.Prove(g, opts)
	}

	valid := logic == "And"
	for _, p := range parts {
		switch logic {
		case "Or":
			if p.Valid {
				valid = true
			}
		default: // And
			if !p.Valid {
				valid = false
			}
		}
	}

	return &types.ReasoningResult{
		Valid:       valid,
		Success:     valid,
		Method:      "compound_goal_" + strings.ToLower(logic),
		Parts:       parts,
		ProofObject: types.ProofObject{ValidatorOk: true},
	}
}

// proveExpr recursively proves an expression tree under binding
// environment e.
func (r *Reasoner) proveExpr(expr *types.Expr, e env, budget *proofBudget, ignoreNegation bool) proofResult {
	if budget.expired() {
		return failure("timeout")
	}
	switch expr.Op {
	case types.OpPred:
		return r.provePred(expr, e, budget, ignoreNegation)
	case types.OpAnd:
		return r.proveAnd(expr.Children, e, budget, ignoreNegation)
	case types.OpOr:
		return r.proveOr(expr.Children, e, budget, ignoreNegation)
	case types.OpNot:
		return r.proveNot(expr.Children[0], e, budget, ignoreNegation)
	case types.OpImplies:
		premise := r.proveExpr(expr.Children[0], e, budget, ignoreNegation)
		if !premise.ok {
			return proofResult{steps: []types.Step{{Rule: "vacuous_implication"}}, minExistence: types.Certain, ok: true}
		}
		concl := r.proveExpr(expr.Children[1], e, budget, ignoreNegation)
		if !concl.ok {
			return failure(concl.reason)
		}
		return proofResult{
			steps:        append(append([]types.Step{}, premise.steps...), concl.steps...),
			minExistence: minExistenceOf(premise.minExistence, concl.minExistence),
			ok:           true,
		}
	default:
		return failure("invalid_goal:unknown_operator")
	}
}

func (r *Reasoner) proveAnd(children []*types.Expr, e env, budget *proofBudget, ignoreNegation bool) proofResult {
	var steps []types.Step
	minExist := types.Certain
	for _, c := range children {
		sub := r.proveExpr(c, e, budget, ignoreNegation)
		if !sub.ok {
			return failure(sub.reason)
		}
		steps = append(steps, sub.steps...)
		minExist = minExistenceOf(minExist, sub.minExistence)
	}
	return proofResult{steps: steps, minExistence: minExist, ok: true}
}

func (r *Reasoner) proveOr(children []*types.Expr, e env, budget *proofBudget, ignoreNegation bool) proofResult {
	var lastReason string
	for _, c := range children {
		sub := r.proveExpr(c, e, budget, ignoreNegation)
		if sub.ok {
			return sub
		}
		lastReason = sub.reason
	}
	if lastReason == "" {
		lastReason = "no_branch_succeeded"
	}
	return failure(lastReason)
}

func (r *Reasoner) proveNot(child *types.Expr, e env, budget *proofBudget, ignoreNegation bool) proofResult {
	grounded := substitute(child, e)

	if grounded.Op == types.OpPred && isGround(grounded) {
		if res, ok := r.directLookupNegated(grounded); ok {
			return res
		}
	}

	if ignoreNegation {
		return proofResult{steps: []types.Step{{Rule: "ignored_negation"}}, minExistence: types.Possible, ok: true}
	}

	if r.ClosedWorldAssumption {
		inner := r.proveExpr(child, e, budget, ignoreNegation)
		if !inner.ok {
			return proofResult{steps: []types.Step{{Rule: "default", Conclusion: "Not(" + grounded.String() + ")"}}, minExistence: types.Possible, ok: true}
		}
		return failure("negation_failed")
	}

	// Negation-as-failure disabled: a rule whose conclusion is itself
	// Not(p) can still prove it.
	for _, rule := range r.rules {
		if rule.Conclusion == nil || rule.Conclusion.Op != types.OpNot {
			continue
		}
		renamed := rule.Rename(renameSuffix(budget))
		u, matched := unifyPred(renamed.Conclusion.Children[0], grounded, env{})
		if !matched {
			continue
		}
		sub := r.proveExpr(renamed.Premise, u, budget, ignoreNegation)
		if sub.ok {
			step := types.Step{Rule: rule.ID, Conclusion: "Not(" + grounded.String() + ")"}
			return proofResult{steps: append(append([]types.Step{}, sub.steps...), step), minExistence: sub.minExistence, ok: true}
		}
	}

	return failure("negation_as_failure_disabled")
}

func (r *Reasoner) provePred(pred *types.Expr, e env, budget *proofBudget, ignoreNegation bool) proofResult {
	grounded := substitute(pred, e)
	key := goalKey(grounded)
	if budget.visited[key] {
		return failure("cycle_detected")
	}
	if budget.expired() {
		return failure("timeout")
	}
	budget.visited[key] = true
	defer delete(budget.visited, key)

	if isGround(grounded) {
		if r.Priority == PriorityHolographic {
			if res, ok := r.holographicPreCheck(grounded); ok {
				return res
			}
		}

		if res, ok := r.directLookup(grounded); ok {
			return res
		}

		meta := r.operatorMeta(grounded.Relation)
		if (meta.Transitive || grounded.Relation == "IS_A") && len(grounded.Args) == 2 {
			if res, ok := r.transitiveChain(grounded); ok {
				return res
			}
		}
		if grounded.Relation == "IS_A" && len(grounded.Args) == 2 {
			if res, ok := r.latticeCheck(grounded); ok {
				return res
			}
		}
	}

	var candidates []proofResult
	var lastReason string
	for _, rule := range r.rules {
		if rule.Conclusion == nil || rule.Conclusion.Op != types.OpPred {
			continue
		}
		renamed := rule.Rename(renameSuffix(budget))
		u, matched := unifyPred(renamed.Conclusion, grounded, env{})
		if !matched {
			continue
		}
		sub := r.proveExpr(renamed.Premise, u, budget, ignoreNegation)
		if !sub.ok && !isGround(substitute(renamed.Premise, u)) {
			// Premise-only variables are bound by resolving the premise
			// against facts and rules, then each binding is proved.
			for _, bound := range r.resolvePremise(renamed.Premise, u, budget, r.MaxChainDepth) {
				if sub = r.proveExpr(renamed.Premise, bound, budget, ignoreNegation); sub.ok {
					break
				}
			}
		}
		if !sub.ok {
			lastReason = sub.reason
			continue
		}
		step := types.Step{Rule: rule.ID, Conclusion: grounded.String()}
		candidates = append(candidates, proofResult{
			steps:        append(append([]types.Step{}, sub.steps...), step),
			minExistence: sub.minExistence,
			ok:           true,
		})
	}

	if len(candidates) > 0 {
		return pickBestProof(candidates)
	}
	if lastReason == "" {
		lastReason = "no_matching_rule"
	}
	return failure(lastReason)
}

func (r *Reasoner) directLookup(goal *types.Expr) (proofResult, bool) {
	if len(goal.Args) < 2 {
		return proofResult{}, false
	}
	subj, obj := goal.Args[0], goal.Args[1]
	fact, ok := r.effectiveBestFact(subj, goal.Relation, &obj)
	if !ok || fact.Deleted {
		return proofResult{}, false
	}
	if fact.Existence < types.Demonstrated {
		return proofResult{}, false
	}
	step := types.Step{Rule: "axiom", Fact: factString(fact)}
	return axiomResult(step, fact.Existence), true
}

func (r *Reasoner) directLookupNegated(goal *types.Expr) (proofResult, bool) {
	if len(goal.Args) < 2 {
		return proofResult{}, false
	}
	subj, obj := goal.Args[0], goal.Args[1]
	fact, ok := r.effectiveBestFact(subj, goal.Relation, &obj)
	if !ok || fact.Deleted {
		return proofResult{}, false
	}
	if fact.Existence > -types.Demonstrated {
		return proofResult{}, false
	}
	step := types.Step{Rule: "axiom", Fact: factString(fact)}
	return axiomResult(step, -fact.Existence), true
}

// transitiveChain searches `a R x1, x1 R x2, …, xk R b` up to MaxChainDepth
// via breadth-first search, guaranteeing the shortest chain wins.
func (r *Reasoner) transitiveChain(goal *types.Expr) (proofResult, bool) {
	subj, obj := goal.Args[0], goal.Args[1]
	type frame struct {
		sym  types.Symbol
		path []types.Symbol
	}
	visited := map[types.Symbol]bool{subj: true}
	queue := []frame{{subj, []types.Symbol{subj}}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if len(cur.path) > r.MaxChainDepth {
			continue
		}
		facts := r.effectiveFactsBySubjectAndRelation(cur.sym, goal.Relation, types.Possible)
		sort.Slice(facts, func(i, j int) bool { return facts[i].Object < facts[j].Object })
		for _, f := range facts {
			if f.Object == obj {
				path := append(append([]types.Symbol{}, cur.path...), obj)
				return transitiveResult(goal, path), true
			}
			if !visited[f.Object] {
				visited[f.Object] = true
				queue = append(queue, frame{f.Object, append(append([]types.Symbol{}, cur.path...), f.Object)})
			}
		}
	}
	return proofResult{}, false
}

func transitiveResult(goal *types.Expr, path []types.Symbol) proofResult {
	step := types.Step{
		Rule:       "transitivity",
		Premise:    chainString(goal.Relation, path),
		Conclusion: goal.String(),
	}
	return axiomResult(step, types.Demonstrated)
}

func chainString(relation types.Symbol, path []types.Symbol) string {
	parts := make([]string, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		parts = append(parts, fmt.Sprintf("%s(%s,%s)", relation, path[i], path[i+1]))
	}
	return strings.Join(parts, ",")
}

// latticeCheck descends/ascends the IS_A taxonomic lattice within
// MaxLatticeDepth.
func (r *Reasoner) latticeCheck(goal *types.Expr) (proofResult, bool) {
	if r.lattice == nil {
		return proofResult{}, false
	}
	subj, obj := goal.Args[0], goal.Args[1]
	visited := map[types.Symbol]bool{subj: true}
	frontier := []types.Symbol{subj}

	for depth := 0; depth < r.MaxLatticeDepth && len(frontier) > 0; depth++ {
		var next []types.Symbol
		for _, s := range frontier {
			parents, err := r.lattice.Parents(s)
			if err != nil {
				continue
			}
			for _, p := range parents {
				if p == obj {
					step := types.Step{Rule: "default", Conclusion: goal.String()}
					return axiomResult(step, types.Demonstrated), true
				}
				if !visited[p] {
					visited[p] = true
					next = append(next, p)
				}
			}
		}
		frontier = next
	}
	return proofResult{}, false
}

// pickBestProof implements §4.7.3 rule 6's three-way tie-break: shortest
// step count, then highest minimum existence, then lexicographic
// canonicalisation of the step list.
func pickBestProof(candidates []proofResult) proofResult {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if better(c, best) {
			best = c
		}
	}
	return best
}

func better(a, b proofResult) bool {
	if len(a.steps) != len(b.steps) {
		return len(a.steps) < len(b.steps)
	}
	if a.minExistence != b.minExistence {
		return a.minExistence > b.minExistence
	}
	return canonicalSteps(a.steps) < canonicalSteps(b.steps)
}

func canonicalSteps(steps []types.Step) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = fmt.Sprintf("%s|%s|%s|%s", s.Rule, s.Fact, s.Premise, s.Conclusion)
	}
	return strings.Join(parts, ";")
}

func minExistenceOf(a, b types.Existence) types.Existence {
	if a < b {
		return a
	}
	return b
}

func factString(f *types.Fact) string {
	return fmt.Sprintf("%s %s %s", f.Subject, f.Relation, f.Object)
}

// renameSuffix produces a fresh, collision-free suffix for Rule.Rename so
// concurrent attempts to apply the same rule never alias bindings.
func renameSuffix(budget *proofBudget) string {
	budget.renameCounter++
	return fmt.Sprintf("#%d", budget.renameCounter)
}
