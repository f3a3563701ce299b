// Package session composes the store, theory stack, HDC strategy, vocab
// index, goal validator, reasoner, and describer into the single façade
// an embedder talks to (§4.9): new/loadCore/learn/prove/query/
// describeResult/close.
package session

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"time"

	"hdcreason/internal/audit"
	"hdcreason/internal/describe"
	"hdcreason/internal/dsl"
	"hdcreason/internal/hdc"
	"hdcreason/internal/holographic"
	"hdcreason/internal/reasoning"
	"hdcreason/internal/sessioncfg"
	"hdcreason/internal/storage"
	"hdcreason/internal/theory"
	"hdcreason/internal/types"
	"hdcreason/internal/validation"
)

//go:embed core.dsl
var coreBundle string

//go:embed core_index.dsl
var coreIndexBundle string

// LearnReport is the outcome of one Learn call (§4.9, §6's learn response
// shape: "{success, facts, errors[], warnings[]}").
type LearnReport struct {
	Success  bool
	Facts    int
	Errors   []string
	Warnings []string
}

// LoadReport is the outcome of a LoadCore call.
type LoadReport struct {
	Success bool
	Errors  []string
}

// Stats is a running summary of session activity (§12 supplemental:
// Session.Stats()).
type Stats struct {
	FactsLearned   int
	RulesLearned   int
	ProveCalls     int
	QueryCalls     int
	AverageLatency time.Duration

	totalLatency time.Duration
}

// Session is the engine façade. It is single-threaded: callers wanting
// concurrency run one Session per goroutine (§4.9's concurrency note).
type Session struct {
	cfg     sessioncfg.Config
	store   storage.Storage
	stack   *theory.TheoryStack
	lattice *theory.Lattice

	strategy hdc.Strategy
	vocab    *hdc.VocabIndex

	validator *validation.GoalValidator
	reasoner  *reasoning.Reasoner
	describer describe.ResultDescriber

	holo   *holographic.Index
	sqlite *audit.SQLiteSink

	mu    sync.Mutex
	stats Stats
}

// New constructs a Session from cfg, validating it first. No I/O happens
// beyond opening the configured storage/audit backends.
func New(cfg sessioncfg.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var emitter storage.AuditEmitter
	var sqliteSink *audit.SQLiteSink
	if cfg.Audit.Enabled {
		sink, err := audit.NewSQLiteSink(cfg.Audit.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("session: audit sink: %w", err)
		}
		sqliteSink = sink
		emitter = sink
	} else {
		emitter = audit.NewMemorySink()
	}

	store, err := storage.NewStorage(cfg.Storage, emitter)
	if err != nil {
		return nil, fmt.Errorf("session: storage: %w", err)
	}

	registry := hdc.DefaultRegistry()
	strategy, err := registry.Get(string(cfg.HdcStrategy))
	if err != nil {
		return nil, err
	}

	stack := theory.NewTheoryStack(theory.DefaultMaxDepth)
	lattice := theory.NewLattice()
	vocab := hdc.NewVocabIndex(strategy, cfg.Geometry)

	reasoner := reasoning.NewReasoner(store, stack, lattice, strategy, vocab)
	var holo *holographic.Index
	if cfg.ReasoningPriority == sessioncfg.PriorityHolographic {
		reasoner.Priority = reasoning.PriorityHolographic
		holo, err = holographic.NewIndex(holographic.Config{})
		if err != nil {
			return nil, fmt.Errorf("session: holographic index: %w", err)
		}
		reasoner.UseHolographicIndex(holo)
	}
	reasoner.ClosedWorldAssumption = cfg.ClosedWorldAssumption

	return &Session{
		cfg:       cfg,
		store:     store,
		stack:     stack,
		lattice:   lattice,
		strategy:  strategy,
		vocab:     vocab,
		validator: validation.NewGoalValidator(),
		reasoner:  reasoner,
		describer: describe.NewDefaultDescriber(),
		holo:      holo,
		sqlite:    sqliteSink,
	}, nil
}

// LoadCore pre-populates built-in concepts and relations from the
// embedded core bundle. Idempotent: re-running Learn on the same text
// only re-asserts facts already at CERTAIN, a no-op per the upgrade-only
// existence rule. When includeIndex is true the supplemental index
// bundle (a broader IS_A/PART_OF taxonomy over operators the core bundle
// declares) is also loaded.
func (s *Session) LoadCore(includeIndex bool) LoadReport {
	report := s.Learn(coreBundle)
	if includeIndex {
		idx := s.Learn(coreIndexBundle)
		report.Errors = append(report.Errors, idx.Errors...)
		report.Warnings = append(report.Warnings, idx.Warnings...)
	}
	return LoadReport{Success: len(report.Errors) == 0, Errors: report.Errors}
}

// Learn parses dslText and applies every statement (§6): fact assertions
// and retractions, operator declarations, and rule blocks. Each line is
// applied atomically; a line that fails is reported in Errors without
// rolling back lines already applied.
func (s *Session) Learn(dslText string) LearnReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	prog := dsl.ParseProgram(dslText)
	report := LearnReport{Success: true}
	for _, pe := range prog.Errors {
		report.Errors = append(report.Errors, pe.Error())
	}

	for _, decl := range prog.OperatorDecls {
		s.reasoner.DeclareOperator(sym(decl.Name), reasoning.OperatorMeta{
			Transitive: decl.Transitive,
			Symmetric:  decl.Symmetric,
			Functional: decl.Functional,
		})
	}

	for _, fs := range prog.Facts {
		if err := s.applyFact(fs); err != nil {
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		report.Facts++
		s.stats.FactsLearned++
	}

	for _, rb := range prog.Rules {
		rule, err := ruleFromBlock(rb)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		s.reasoner.AddRule(rule)
		s.stats.RulesLearned++
	}

	for _, cmd := range prog.ConceptCommands {
		if err := s.applyConceptCommand(cmd); err != nil {
			report.Errors = append(report.Errors, err.Error())
		}
	}

	report.Success = len(report.Errors) == 0
	return report
}

// applyConceptCommand carries out one parsed PROTECT/UNPROTECT/BOOST/
// FORGET directive against the concept store (§6).
func (s *Session) applyConceptCommand(cmd dsl.ConceptCommand) error {
	switch cmd.Kind {
	case "protect":
		s.store.Protect(sym(cmd.Label))
		return nil
	case "unprotect":
		s.store.Unprotect(sym(cmd.Label))
		return nil
	case "boost":
		s.store.BoostUsage(sym(cmd.Label), cmd.Amount)
		return nil
	case "forget":
		opts := storage.ForgetOptions{
			Concept: sym(cmd.Concept),
			Pattern: cmd.Pattern,
			DryRun:  cmd.DryRun,
		}
		if cmd.Threshold != "" {
			e, ok := types.ExistenceFromName(cmd.Threshold)
			if !ok {
				return fmt.Errorf("session: unrecognised existence level %q in %q", cmd.Threshold, cmd.Raw)
			}
			opts.Threshold = &e
		}
		if cmd.OlderThan != "" {
			d, err := time.ParseDuration(cmd.OlderThan)
			if err != nil {
				return fmt.Errorf("session: invalid FORGET OLDER_THAN duration %q in %q", cmd.OlderThan, cmd.Raw)
			}
			opts.OlderThan = d
		}
		_, err := s.store.Forget(opts)
		return err
	default:
		return fmt.Errorf("session: unrecognised concept command %q", cmd.Kind)
	}
}

func (s *Session) applyFact(fs dsl.FactStatement) error {
	if len(fs.Args) < 2 {
		return fmt.Errorf("session: fact %q needs at least subject and object", fs.Raw)
	}
	subject := sym(fs.Args[0])
	object := sym(fs.Args[1])
	relation := sym(fs.Relation)
	key := types.FactKey{Subject: subject, Relation: relation, Object: object}

	if fs.Retract {
		return s.removeFact(key)
	}

	existence := types.Certain
	if fs.Existence != "" {
		if e, ok := types.ExistenceFromName(fs.Existence); ok {
			existence = e
		} else {
			return fmt.Errorf("session: unrecognised existence level %q in %q", fs.Existence, fs.Raw)
		}
	}

	builder := types.NewFact(subject, relation, object).Existence(existence)
	if len(fs.Args) > 2 {
		extra := make([]types.Symbol, len(fs.Args)-2)
		for i, a := range fs.Args[2:] {
			extra[i] = sym(a)
		}
		builder.WithExtra(extra...)
	}
	fact := builder.Build()

	if relation == "IS_A" {
		_ = s.lattice.AddIsA(subject, object)
	}

	if err := s.addFact(fact); err != nil {
		return err
	}
	s.reasoner.IndexFact(subject, relation, object)
	return nil
}

// addFact writes f to the top hypothetical layer while one is pushed
// (§4.4), otherwise straight through to the persistent store.
func (s *Session) addFact(f *types.Fact) error {
	if s.stack.Depth() > 1 {
		return s.stack.PutFact(f)
	}
	_, err := s.store.AddFact(f)
	return err
}

// removeFact mirrors addFact for retraction: a soft-deletion tombstone in
// the top layer while hypothetical, a real removal otherwise.
func (s *Session) removeFact(key types.FactKey) error {
	if s.stack.Depth() > 1 {
		return s.stack.DeleteFact(key)
	}
	return s.store.RemoveFact(key)
}

// Push opens a new hypothetical reasoning layer (§4.4): subsequent Learn
// writes land in it instead of the persistent store until Pop discards
// them or Commit folds them into the parent layer.
func (s *Session) Push(readonly bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.stack.Push(readonly)
	return err
}

// Pop discards the top hypothetical layer and every write made under it.
func (s *Session) Pop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.stack.Pop()
	return err
}

// Commit folds the top hypothetical layer into its parent. Once folding
// flattens the stack back to just the base layer, the base layer's delta
// is flushed through to the persistent store and cleared: once nothing
// is pushed, the base layer is never read directly again.
func (s *Session) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.stack.Commit(); err != nil {
		return err
	}
	if s.stack.Depth() > 1 {
		return nil
	}

	base := s.stack.Top()
	for key, f := range base.Delta {
		if f.Deleted {
			if err := s.store.RemoveFact(key); err != nil {
				return err
			}
			continue
		}
		if _, err := s.store.AddFact(f); err != nil {
			return err
		}
		s.reasoner.IndexFact(f.Subject, f.Relation, f.Object)
	}
	base.Delta = make(map[types.FactKey]*types.Fact)
	return nil
}

// ruleFromBlock converts a parsed `@name BEGIN … END` block into a Rule:
// the body lines conjoin into the premise (a leading "NOT" token negates
// that line), and the return line becomes the conclusion.
func ruleFromBlock(rb dsl.RuleBlock) (*types.Rule, error) {
	if rb.Return == nil {
		return nil, fmt.Errorf("session: rule %q has no return line", rb.Name)
	}
	if len(rb.Body) == 0 {
		return nil, fmt.Errorf("session: rule %q has an empty body", rb.Name)
	}

	children := make([]*types.Expr, len(rb.Body))
	for i, gs := range rb.Body {
		children[i] = exprFromGoalStatement(gs)
	}
	var premise *types.Expr
	if len(children) == 1 {
		premise = children[0]
	} else {
		premise = types.And(children...)
	}

	return types.NewRule(rb.Name).
		Premise(premise).
		Conclusion(exprFromGoalStatement(*rb.Return)).
		Build(), nil
}

func exprFromGoalStatement(gs dsl.GoalStatement) *types.Expr {
	if strings.EqualFold(gs.Op, "NOT") && len(gs.Args) >= 1 {
		inner := types.Pred(sym(gs.Args[0]), symbolsOf(gs.Args[1:])...)
		return types.Not(inner)
	}
	return types.Pred(sym(gs.Op), symbolsOf(gs.Args)...)
}

func symbolsOf(args []string) []types.Symbol {
	out := make([]types.Symbol, len(args))
	for i, a := range args {
		out[i] = sym(a)
	}
	return out
}

// sym interns s through the shared symbol interner before converting it:
// the same relation and concept labels recur across every fact and rule
// line a session learns, so canonicalising their backing strings here
// keeps repeated labels from each carrying a distinct string header.
func sym(s string) types.Symbol {
	return types.InternSymbol(types.Symbol(s))
}

// Prove resolves a single goal line or a compound goal blob (§4.7) and
// records the call for Stats().
func (s *Session) Prove(goalLine string, opts reasoning.Options) *types.ReasoningResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer s.recordLatency(&s.stats.ProveCalls, start)

	result := s.validator.Validate(goalLine)
	if !result.Valid {
		return &types.ReasoningResult{Valid: false, Success: false, Reason: result.Reason}
	}
	s.declareAutoOperators(result.DeclaredOperators)
	if len(result.Goals) == 1 {
		return s.reasoner.Prove(result.Goals[0], opts)
	}
	return s.reasoner.ProveCompound(result.Goals, string(result.GoalLogic), opts)
}

// Query resolves variable bindings for a goal line (§4.7.4).
func (s *Session) Query(goalLine string, opts reasoning.Options) *types.ReasoningResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer s.recordLatency(&s.stats.QueryCalls, start)

	result := s.validator.Validate(goalLine)
	if !result.Valid {
		return &types.ReasoningResult{Success: false, Reason: result.Reason}
	}
	s.declareAutoOperators(result.DeclaredOperators)
	return s.reasoner.Query(result.Goals[0], opts)
}

// declareAutoOperators registers every operator a goal's `declare_ops`
// control comment named (§4.6 rule 4), skipping any relation that
// already carries declared transitive/symmetric/functional metadata so
// a bare auto-declaration never clobbers it.
func (s *Session) declareAutoOperators(names []string) {
	for _, name := range names {
		relation := sym(name)
		if _, ok := s.reasoner.OperatorMeta(relation); ok {
			continue
		}
		s.reasoner.DeclareOperator(relation, reasoning.OperatorMeta{})
	}
}

// Protect marks a concept so Forget skips every fact naming it.
func (s *Session) Protect(label types.Symbol) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Protect(label)
}

// Unprotect reverses a prior Protect.
func (s *Session) Unprotect(label types.Symbol) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Unprotect(label)
}

// BoostUsage raises a concept's recall priority by amount (§3 usage
// tracking feeding GetConceptsByUsage).
func (s *Session) BoostUsage(label types.Symbol, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.BoostUsage(label, amount)
}

// Forget removes facts matching opts, skipping protected concepts (§6).
func (s *Session) Forget(opts storage.ForgetOptions) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Forget(opts)
}

// DescribeResult renders a prior Prove/Query result as prose (§4.8).
func (s *Session) DescribeResult(action string, result *types.ReasoningResult, queryDSL string) string {
	return s.describer.Describe(action, result, queryDSL)
}

// Stats returns a snapshot of session activity counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	if st.ProveCalls+st.QueryCalls > 0 {
		st.AverageLatency = st.totalLatency / time.Duration(st.ProveCalls+st.QueryCalls)
	}
	return st
}

func (s *Session) recordLatency(counter *int, start time.Time) {
	*counter++
	s.stats.totalLatency += time.Since(start)
}

// Close releases the storage and audit backends. A closed Session must
// not be used again.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.holo != nil {
		_ = s.holo.Close()
	}
	if s.sqlite != nil {
		_ = s.sqlite.Close()
	}
	return storage.CloseStorage(s.store)
}
