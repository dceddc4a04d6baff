// internal/bridge/mapping.go
package bridge

// Translations from the portal's internal field vocabulary to the LOS
// vocabulary. Every function is total: nil is represented by the empty
// string, and anything unrecognized falls back to the documented default,
// so malformed application data can never fail a push.

var loanPurposeByProduct = map[string]string{
	"purchase":  "Purchase",
	"refinance": "Refinance",
	"heloc":     "HELOC",
}

// MapLoanPurpose translates the internal product type. Default: Purchase.
func MapLoanPurpose(productType string) string {
	if v, ok := loanPurposeByProduct[productType]; ok {
		return v
	}
	return "Purchase"
}

var housingTypeByProperty = map[string]string{
	"single_family": "Single Family",
	"condo":         "Condominium",
	"townhouse":     "Townhouse",
	"multi_family":  "Two-to-Four Unit",
}

// MapPropertyType translates the subject property type. Default: Single Family.
func MapPropertyType(propertyType string) string {
	if v, ok := housingTypeByProperty[propertyType]; ok {
		return v
	}
	return "Single Family"
}

var usageTypeByOccupancy = map[string]string{
	"primary":    "PrimaryResidence",
	"secondary":  "SecondHome",
	"investment": "InvestmentProperty",
}

// MapPropertyUsage translates the occupancy intent. Default: PrimaryResidence.
func MapPropertyUsage(propertyUsage string) string {
	if v, ok := usageTypeByOccupancy[propertyUsage]; ok {
		return v
	}
	return "PrimaryResidence"
}

var mortgageTypes = map[string]string{
	"conventional": "Conventional",
	"fha":          "FHA",
	"va":           "VA",
	"jumbo":        "Jumbo",
}

// MapMortgageType translates the mortgage program. Default: Conventional.
func MapMortgageType(mortgageType string) string {
	if v, ok := mortgageTypes[mortgageType]; ok {
		return v
	}
	return "Conventional"
}

var amortizationTypes = map[string]string{
	"fixed": "Fixed",
	"arm":   "AdjustableRate",
}

// MapAmortizationType translates the amortization plan. Default: Fixed.
func MapAmortizationType(amortizationType string) string {
	if v, ok := amortizationTypes[amortizationType]; ok {
		return v
	}
	return "Fixed"
}

// Income classification collapses most employment statuses to Primary; only
// military pay is classified separately on the LOS side.
var incomeClassifications = map[string]string{
	"salaried":      "Primary",
	"self-employed": "Primary",
	"self_employed": "Primary",
	"retired":       "Primary",
	"military":      "MilitaryPay",
}

// MapIncomeClassification translates the employment status. Default: Primary.
func MapIncomeClassification(employmentStatus string) string {
	if v, ok := incomeClassifications[employmentStatus]; ok {
		return v
	}
	return "Primary"
}

var residencyBases = map[string]string{
	"own":       "Own",
	"rent":      "Rent",
	"rent_free": "LivingRentFree",
}

// MapHousingStatus translates the current-residence basis. Default: Rent.
func MapHousingStatus(housingStatus string) string {
	if v, ok := residencyBases[housingStatus]; ok {
		return v
	}
	return "Rent"
}

var maritalStatuses = map[string]string{
	"married":   "Married",
	"unmarried": "Unmarried",
	"separated": "Separated",
}

// MapMaritalStatus translates the marital status. Default: Unmarried.
func MapMaritalStatus(maritalStatus string) string {
	if v, ok := maritalStatuses[maritalStatus]; ok {
		return v
	}
	return "Unmarried"
}
