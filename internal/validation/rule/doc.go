// Package rule defines the construction-rule contract and the registry
// that resolves effective rule sets per unit subtype.
//
// A rule is data (identity, category, priority, applicability, and
// override/extend relations) plus two pure functions: an optional
// per-context applicability predicate and the validation check itself.
// Rules register at one of three tiers (universal, category, subtype).
// The registry resolves the effective, priority-ordered rule list for a
// subtype, applying override suppression and folding extensions into
// their base rule's identity, and memoizes the result until the next
// structural mutation.
package rule
