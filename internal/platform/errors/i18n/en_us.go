package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnitIDRequired        = "UNIT_ID_REQUIRED"
	CodeUnitChassisRequired   = "UNIT_CHASSIS_REQUIRED"
	CodeUnitUnknownSubtype    = "UNIT_UNKNOWN_SUBTYPE"
	CodeUnitUnknownTechBase   = "UNIT_UNKNOWN_TECH_BASE"
	CodeUnitUnknownRulesLevel = "UNIT_UNKNOWN_RULES_LEVEL"
	CodeUnitInvalidTonnage    = "UNIT_INVALID_TONNAGE"
	CodeRuleIDRequired        = "RULE_ID_REQUIRED"
	CodeRuleValidateRequired  = "RULE_VALIDATE_REQUIRED"
	CodeRuleCategoryRequired  = "RULE_CATEGORY_REQUIRED"
	CodeRuleDuplicateID       = "RULE_DUPLICATE_ID"
	CodeRuleUnknownReference  = "RULE_UNKNOWN_REFERENCE"
	CodeRuleExtendExtension   = "RULE_EXTEND_EXTENSION"
	CodeRuleNotFound          = "RULE_NOT_FOUND"
	CodeUnitNotFound          = "UNIT_NOT_FOUND"
	CodeUnitExists            = "UNIT_EXISTS"
	CodeFilterInvalid         = "FILTER_INVALID"
	CodePageTokenInvalid      = "PAGE_TOKEN_INVALID"
	CodeStoreUnavailable      = "STORE_UNAVAILABLE"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Unit errors
		CodeUnitIDRequired:        "Unit ID cannot be empty",
		CodeUnitChassisRequired:   "Unit chassis cannot be empty",
		CodeUnitUnknownSubtype:    "Unknown unit subtype {{.Subtype}}",
		CodeUnitUnknownTechBase:   "Unknown tech base {{.TechBase}}",
		CodeUnitUnknownRulesLevel: "Unknown rules level {{.RulesLevel}}",
		CodeUnitInvalidTonnage:    "Tonnage {{.Tonnage}} is not valid for this unit",

		// Rule registry errors
		CodeRuleIDRequired:       "Rule ID cannot be empty",
		CodeRuleValidateRequired: "Rule must define a validate function",
		CodeRuleCategoryRequired: "Rule must declare a category",
		CodeRuleDuplicateID:      "Rule {{.RuleID}} is already registered",
		CodeRuleUnknownReference: "Rule {{.RuleID}} references unknown rule {{.Reference}}",
		CodeRuleExtendExtension:  "Rule {{.RuleID}} cannot extend another extension",
		CodeRuleNotFound:         "Rule {{.RuleID}} was not found",

		// Catalog errors
		CodeUnitNotFound:     "Unit {{.UnitID}} was not found",
		CodeUnitExists:       "Unit {{.UnitID}} already exists",
		CodeFilterInvalid:    "Filter expression is invalid",
		CodePageTokenInvalid: "Page token is invalid or expired",
		CodeStoreUnavailable: "The unit catalog is temporarily unavailable",
	},
}
