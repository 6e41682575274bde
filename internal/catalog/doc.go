// Package catalog defines persistence interfaces for the unit catalog.
//
// The catalog stores unit designs so they can be fetched and validated
// later by id, and listed with AIP-160 filter expressions and opaque
// cursor pagination. Implementations live in subpackages (e.g. sqlite).
package catalog
