// Package unit defines the validatable combat-unit entity and its
// classification enums.
//
// A Unit is plain data: identity, chassis naming, classification
// (subtype, tech base, rules level), and the numeric construction fields
// rules evaluate. Construction detail such as per-location slot usage or
// armor allocation is optional — the customizer layer supplies it when
// available, and rules that need it report themselves as not applicable
// when it is absent.
package unit
