package types

import (
	"fmt"
	"time"
)

// FactBuilder provides a fluent API for fact construction, mirroring the
// existence-default and chained-setter style used throughout this package.
type FactBuilder struct {
	fact *Fact
}

// NewFact creates a new FactBuilder with sensible defaults (existence
// CERTAIN, matching the default §6 assigns to a bare fact assertion).
func NewFact(subject, relation, object Symbol) *FactBuilder {
	return &FactBuilder{
		fact: &Fact{
			Subject:   subject,
			Relation:  relation,
			Object:    object,
			Existence: Certain,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
}

// Existence overrides the default existence level.
func (b *FactBuilder) Existence(e Existence) *FactBuilder {
	b.fact.Existence = e
	return b
}

// WithExtra appends n-ary arguments beyond (subject, relation, object).
func (b *FactBuilder) WithExtra(args ...Symbol) *FactBuilder {
	b.fact.Extra = append(b.fact.Extra, args...)
	return b
}

// Build returns the constructed fact.
func (b *FactBuilder) Build() *Fact {
	return b.fact
}

// Validate ensures the fact meets minimum requirements.
func (b *FactBuilder) Validate() error {
	if b.fact.Subject == "" || b.fact.Relation == "" {
		return fmt.Errorf("fact subject and relation cannot be empty")
	}
	if b.fact.Existence < Impossible || b.fact.Existence > Certain {
		return fmt.Errorf("existence must be between %d and %d", Impossible, Certain)
	}
	return nil
}

// RuleBuilder provides a fluent API for rule construction.
type RuleBuilder struct {
	rule *Rule
}

// NewRule creates a new RuleBuilder.
func NewRule(id string) *RuleBuilder {
	return &RuleBuilder{rule: &Rule{ID: id}}
}

// Premise sets the rule's premise expression.
func (b *RuleBuilder) Premise(e *Expr) *RuleBuilder {
	b.rule.Premise = e
	return b
}

// Conclusion sets the rule's conclusion expression.
func (b *RuleBuilder) Conclusion(e *Expr) *RuleBuilder {
	b.rule.Conclusion = e
	return b
}

// Transitive marks the rule's relation as transitive (§6 operator
// declaration metadata).
func (b *RuleBuilder) Transitive() *RuleBuilder {
	b.rule.Transitive = true
	return b
}

// Symmetric marks the rule's relation as symmetric.
func (b *RuleBuilder) Symmetric() *RuleBuilder {
	b.rule.Symmetric = true
	return b
}

// Functional marks the rule's relation as functional (single-valued).
func (b *RuleBuilder) Functional() *RuleBuilder {
	b.rule.Functional = true
	return b
}

// Build returns the constructed rule.
func (b *RuleBuilder) Build() *Rule {
	return b.rule
}

// Validate ensures the rule meets minimum requirements.
func (b *RuleBuilder) Validate() error {
	if b.rule.Premise == nil || b.rule.Conclusion == nil {
		return fmt.Errorf("rule must have both a premise and a conclusion")
	}
	return nil
}

// ConceptBuilder provides a fluent API for concept construction.
type ConceptBuilder struct {
	concept *Concept
}

// NewConcept creates a new ConceptBuilder with usage timestamps set to now.
func NewConcept(label Symbol) *ConceptBuilder {
	now := time.Now()
	return &ConceptBuilder{
		concept: &Concept{
			Label: label,
			Usage: UsageStats{CreatedAt: now, LastUsedAt: now},
		},
	}
}

// WithDiamond attaches an initial diamond.
func (b *ConceptBuilder) WithDiamond(d *Diamond) *ConceptBuilder {
	b.concept.Diamond = d
	return b
}

// Build returns the constructed concept.
func (b *ConceptBuilder) Build() *Concept {
	return b.concept
}
