// Package engine drives validation passes over candidate unit designs.
//
// The engine holds no state between calls beyond a reference to its rule
// registry. One pass resolves the effective rule list for the unit's
// subtype, filters it by caller options, executes each rule with panic
// recovery and wall-clock timing, and aggregates the outcomes into a
// single report. A pass never aborts because one rule misbehaved; the
// only sanctioned early stop is the caller's error budget.
package engine
