// Package rules provides the construction rule library.
//
// Each file contributes one concern (weight, slots, armor, tech,
// construction) as a set of rule definitions plus a Register function
// that installs them into a registry at the appropriate tier.
// RegisterAll is the shared bootstrap point application wiring calls
// once at startup.
package rules
