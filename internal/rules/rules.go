// Package rules holds the static catalogue of GraphQL validation rules and the
// per-environment policy deciding which of them run.
package rules

import (
	"bennypowers.dev/gqlint/internal/collections"
	"bennypowers.dev/gqlint/internal/config"
	"github.com/vektah/gqlparser/v2/validator"
	gqlrules "github.com/vektah/gqlparser/v2/validator/rules"
)

// Rule is a named validation rule
type Rule interface {
	// Name is the rule's identifier, e.g. "FieldsOnCorrectType"
	Name() string
	// Validator returns the rule in the form the GraphQL validator runs it
	Validator() validator.Rule
}

type gqlRule struct {
	rule validator.Rule
}

func (r gqlRule) Name() string              { return r.rule.Name }
func (r gqlRule) Validator() validator.Rule { return r.rule }

// Catalogue is the ordered set of rules applied to embedded documents.
//
// KnownFragmentNames and NoUnusedFragments are left out: any interpolation may
// be a fragment defined elsewhere, and standalone fragment literals are normal.
var Catalogue = []Rule{
	gqlRule{gqlrules.UniqueOperationNamesRule},
	gqlRule{gqlrules.LoneAnonymousOperationRule},
	gqlRule{gqlrules.KnownTypeNamesRule},
	gqlRule{gqlrules.FragmentsOnCompositeTypesRule},
	gqlRule{gqlrules.VariablesAreInputTypesRule},
	gqlRule{gqlrules.ScalarLeafsRule},
	gqlRule{gqlrules.FieldsOnCorrectTypeRule},
	gqlRule{gqlrules.UniqueFragmentNamesRule},
	gqlRule{gqlrules.PossibleFragmentSpreadsRule},
	gqlRule{gqlrules.NoFragmentCyclesRule},
	gqlRule{gqlrules.UniqueVariableNamesRule},
	gqlRule{gqlrules.NoUndefinedVariablesRule},
	gqlRule{gqlrules.NoUnusedVariablesRule},
	gqlRule{gqlrules.KnownDirectivesRule},
	gqlRule{gqlrules.KnownArgumentNamesRule},
	gqlRule{gqlrules.UniqueArgumentNamesRule},
	gqlRule{gqlrules.ValuesOfCorrectTypeRule},
	gqlRule{gqlrules.ProvidedRequiredArgumentsRule},
	gqlRule{gqlrules.VariablesInAllowedPositionRule},
	gqlRule{gqlrules.OverlappingFieldsCanBeMergedRule},
	gqlRule{gqlrules.UniqueInputFieldNamesRule},
}

// Excluded lists, per environment, rules whose constraints the environment's own
// tooling enforces; checking them here only yields false positives.
var Excluded = map[config.Environment][]string{
	config.EnvRelay: {
		"ScalarLeafs",
		"ProvidedRequiredArguments",
		"KnownDirectives",
		"NoUndefinedVariables",
	},
}

// Select returns the rules from catalogue that run in env, in catalogue order
func Select(catalogue []Rule, env config.Environment) []Rule {
	excluded := Excluded[env]
	if len(excluded) == 0 {
		return catalogue
	}

	skip := collections.NewSet(excluded...)
	selected := make([]Rule, 0, len(catalogue))
	for _, r := range catalogue {
		if !skip.Has(r.Name()) {
			selected = append(selected, r)
		}
	}
	return selected
}

// Validators unwraps rules into the form the GraphQL validator accepts
func Validators(rs []Rule) []validator.Rule {
	out := make([]validator.Rule, len(rs))
	for i, r := range rs {
		out[i] = r.Validator()
	}
	return out
}

// Names returns the rule names, in order
func Names(rs []Rule) []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Name()
	}
	return names
}
