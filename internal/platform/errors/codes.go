// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Unit errors
	CodeUnitIDRequired        Code = "UNIT_ID_REQUIRED"
	CodeUnitChassisRequired   Code = "UNIT_CHASSIS_REQUIRED"
	CodeUnitUnknownSubtype    Code = "UNIT_UNKNOWN_SUBTYPE"
	CodeUnitUnknownTechBase   Code = "UNIT_UNKNOWN_TECH_BASE"
	CodeUnitUnknownRulesLevel Code = "UNIT_UNKNOWN_RULES_LEVEL"
	CodeUnitInvalidTonnage    Code = "UNIT_INVALID_TONNAGE"

	// Rule registry errors
	CodeRuleIDRequired       Code = "RULE_ID_REQUIRED"
	CodeRuleValidateRequired Code = "RULE_VALIDATE_REQUIRED"
	CodeRuleCategoryRequired Code = "RULE_CATEGORY_REQUIRED"
	CodeRuleDuplicateID      Code = "RULE_DUPLICATE_ID"
	CodeRuleUnknownReference Code = "RULE_UNKNOWN_REFERENCE"
	CodeRuleExtendExtension  Code = "RULE_EXTEND_EXTENSION"
	CodeRuleNotFound         Code = "RULE_NOT_FOUND"

	// Catalog errors
	CodeUnitNotFound     Code = "UNIT_NOT_FOUND"
	CodeUnitExists       Code = "UNIT_EXISTS"
	CodeFilterInvalid    Code = "FILTER_INVALID"
	CodePageTokenInvalid Code = "PAGE_TOKEN_INVALID"
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeUnitIDRequired,
		CodeUnitChassisRequired,
		CodeUnitUnknownSubtype,
		CodeUnitUnknownTechBase,
		CodeUnitUnknownRulesLevel,
		CodeUnitInvalidTonnage,
		CodeRuleIDRequired,
		CodeRuleValidateRequired,
		CodeRuleCategoryRequired,
		CodeFilterInvalid,
		CodePageTokenInvalid:
		return codes.InvalidArgument

	// FailedPrecondition - registry state doesn't allow operation
	case CodeRuleUnknownReference,
		CodeRuleExtendExtension:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeRuleNotFound,
		CodeUnitNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeRuleDuplicateID,
		CodeUnitExists:
		return codes.AlreadyExists

	// Unavailable - backing store failures
	case CodeStoreUnavailable:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
