// Package describe renders a ReasoningResult as human-readable English
// (§4.8). Implementations must be total: never panic, always return a
// string, even for a malformed or zero-value result.
package describe

import (
	"fmt"
	"sort"
	"strings"

	"hdcreason/internal/types"
)

// ResultDescriber turns a reasoning outcome into prose.
type ResultDescriber interface {
	Describe(action string, result *types.ReasoningResult, queryDSL string) string
}

// DefaultDescriber is the engine's built-in English renderer.
type DefaultDescriber struct{}

// NewDefaultDescriber returns the default English ResultDescriber.
func NewDefaultDescriber() DefaultDescriber { return DefaultDescriber{} }

// Describe implements ResultDescriber.
func (DefaultDescriber) Describe(action string, result *types.ReasoningResult, queryDSL string) string {
	if result == nil {
		return "No result was produced."
	}

	switch strings.ToLower(action) {
	case "query":
		return describeQuery(result, queryDSL)
	default:
		return describeProve(result)
	}
}

func describeProve(result *types.ReasoningResult) string {
	if len(result.Parts) > 0 {
		return describeCompound(result)
	}

	if !result.Valid {
		if result.Reason != "" {
			return fmt.Sprintf("Could not prove the goal (%s).", result.Reason)
		}
		return "Could not prove the goal."
	}

	steps := len(result.Steps)
	method := result.Method
	if method == "" {
		method = "an unspecified method"
	}
	switch steps {
	case 0:
		return fmt.Sprintf("Proved via %s.", method)
	case 1:
		return fmt.Sprintf("Proved via %s in 1 step.", method)
	default:
		return fmt.Sprintf("Proved via %s in %d steps.", method, steps)
	}
}

func describeCompound(result *types.ReasoningResult) string {
	verdict := "failed"
	if result.Valid {
		verdict = "succeeded"
	}
	var sub []string
	for i, p := range result.Parts {
		status := "false"
		if p != nil && p.Valid {
			status = "true"
		}
		sub = append(sub, fmt.Sprintf("goal %d: %s", i+1, status))
	}
	return fmt.Sprintf("Compound proof %s (%s) — %s.", verdict, result.Method, strings.Join(sub, ", "))
}

func describeQuery(result *types.ReasoningResult, queryDSL string) string {
	if !result.Success {
		if result.Error != "" {
			return fmt.Sprintf("Query %q found no answers (%s).", queryDSL, result.Error)
		}
		return fmt.Sprintf("Query %q found no answers.", queryDSL)
	}

	answers := answerSymbols(result.Matches)
	switch len(answers) {
	case 0:
		return fmt.Sprintf("Query %q succeeded with %d match(es) but no bound answer symbols.", queryDSL, len(result.Matches))
	case 1:
		return fmt.Sprintf("Query %q answered: %s.", queryDSL, answers[0])
	default:
		return fmt.Sprintf("Query %q answered: %s.", queryDSL, strings.Join(answers, ", "))
	}
}

// answerSymbols walks each match's bindings, collecting every bound answer
// symbol (§4.7.5). Bindings are keyed by variable name and sorted before
// traversal: Go maps carry no insertion order (unlike the map used in the
// original language this engine's data model was distilled from), so a
// sorted key order is substituted to keep display output deterministic.
func answerSymbols(matches []types.Match) []string {
	var out []string
	for _, m := range matches {
		keys := make([]string, 0, len(m.Bindings))
		for k := range m.Bindings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if sym, ok := types.AnswerOf(m.Bindings[k]); ok && sym != "" {
				out = append(out, string(sym))
			}
		}
	}
	return out
}
