// internal/bridge/payload.go
package bridge

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"los-bridge/internal/models"
)

// Constant fields included in every payload so the LOS can attribute the lead.
const (
	LeadSource         = "Customer Portal"
	OriginationChannel = "Online Application"
)

// Payload mirrors the LOS's flat field schema. The JSON tags are the wire
// contract and must not be changed. Pointer fields marshal as null when the
// source value is missing; omitempty is deliberately not used so the payload
// shape is stable across applications.
type Payload struct {
	LeadSource         string `json:"leadSource"`
	OriginationChannel string `json:"loanOriginationChannel"`

	LoanPurpose      string   `json:"loanPurpose"`
	MortgageType     string   `json:"mortgageType"`
	AmortizationType string   `json:"amortizationType"`
	BaseLoanAmount   *float64 `json:"baseLoanAmount"`
	LoanTerm         *int     `json:"loanTerm"`
	AmortizationTerm *int     `json:"amortizationTerm"`
	DownPayment      *float64 `json:"downPayment"`

	SubjectPropertyAddress       *string `json:"subjectProperty_addressLine"`
	SubjectPropertyCity          *string `json:"subjectProperty_city"`
	SubjectPropertyState         *string `json:"subjectProperty_state"`
	SubjectPropertyCounty        *string `json:"subjectProperty_county"`
	SubjectPropertyPostalCode    *string `json:"subjectProperty_postalCode"`
	SubjectPropertyHousingType   string  `json:"subjectProperty_housingType"`
	SubjectPropertyUsageType     string  `json:"subjectProperty_propertyUsageType"`
	SubjectPropertyEstimatedValue *float64 `json:"subjectProperty_estimatedValue"`
	SubjectPropertyFinancedUnits int     `json:"subjectProperty_financedUnits"`

	BorrowerFirstName         *string  `json:"loanBorrowers_firstName"`
	BorrowerLastName          *string  `json:"loanBorrowers_lastName"`
	BorrowerEmail             *string  `json:"loanBorrowers_email"`
	BorrowerMobilePhone       *string  `json:"loanBorrowers_mobilePhone"`
	BorrowerBirthDay          *string  `json:"loanBorrowers_birthDayOfMonth"`
	BorrowerBirthMonth        *string  `json:"loanBorrowers_birthMonth"`
	BorrowerDateOfBirth       *string  `json:"loanBorrowers_dateOfBirth"`
	BorrowerMaritalStatus     string   `json:"loanBorrowers_maritalStatus"`
	BorrowerFirstTimeBuyer    *bool    `json:"loanBorrowers_firstTimeHomeBuyer"`
	BorrowerPreferredLanguage string   `json:"loanBorrowers_preferredLanguage"`
	BorrowerCreditScore       *float64 `json:"loanBorrowers_creditScore"`

	MailingAddress        *string  `json:"mailingAddress_addressLine"`
	MailingCity           *string  `json:"mailingAddress_city"`
	MailingState          *string  `json:"mailingAddress_state"`
	MailingPostalCode     *string  `json:"mailingAddress_postalCode"`
	MailingHousingStatus  string   `json:"mailingAddress_residencyBasisType"`
	MailingYearsAtAddress *float64 `json:"mailingAddress_durationTermYears"`

	EmployerName         *string `json:"employment_employerName"`
	EmployerPosition     *string `json:"employment_positionDescription"`
	EmployerPhone        *string `json:"employment_phoneNumber"`
	EmploymentStartDate  *string `json:"employment_startDate"`
	SelfEmployed         *bool   `json:"employment_selfEmployedIndicator"`
	IncomeClassification string  `json:"employment_incomeClassificationType"`
	MonthlyIncome        *int    `json:"employment_monthlyIncomeAmount"`
}

// BuildPayload assembles the base payload from one application record. Pure:
// no I/O, no clock, total over arbitrary wizard data. Borrower identity
// fields stay nil here; delivery fills them from the profile lookup.
func BuildPayload(app *models.LoanApplication) *Payload {
	data := app.Data
	if data == nil {
		data = map[string]interface{}{}
	}

	birthDay, birthMonth, dateOfBirth := decomposeDOB(data["dateOfBirth"])

	loanTermMonths := yearsToMonths(data["loanTerm"])

	p := &Payload{
		LeadSource:         LeadSource,
		OriginationChannel: OriginationChannel,

		LoanPurpose:      MapLoanPurpose(stringField(data, "productType")),
		MortgageType:     MapMortgageType(stringField(data, "mortgageType")),
		AmortizationType: MapAmortizationType(stringField(data, "amortizationType")),
		BaseLoanAmount:   toDecimal(data["loanAmount"]),
		LoanTerm:         loanTermMonths,
		AmortizationTerm: loanTermMonths,
		DownPayment:      toDecimal(data["downPayment"]),

		SubjectPropertyAddress:        stringPtr(data, "propertyAddress"),
		SubjectPropertyCity:           stringPtr(data, "propertyCity"),
		SubjectPropertyState:          stringPtr(data, "propertyState"),
		SubjectPropertyCounty:         stringPtr(data, "propertyCounty"),
		SubjectPropertyPostalCode:     stringPtr(data, "propertyZip"),
		SubjectPropertyHousingType:    MapPropertyType(stringField(data, "propertyType")),
		SubjectPropertyUsageType:      MapPropertyUsage(stringField(data, "propertyUsage")),
		SubjectPropertyEstimatedValue: toDecimal(data["estimatedPropertyValue"]),
		SubjectPropertyFinancedUnits:  financedUnits(data["unitCount"]),

		BorrowerBirthDay:          birthDay,
		BorrowerBirthMonth:        birthMonth,
		BorrowerDateOfBirth:       dateOfBirth,
		BorrowerMaritalStatus:     MapMaritalStatus(stringField(data, "maritalStatus")),
		BorrowerFirstTimeBuyer:    boolPtr(data, "firstTimeBuyer"),
		BorrowerPreferredLanguage: preferredLanguage(data),
		BorrowerCreditScore:       toDecimal(data["creditScore"]),

		MailingAddress:        stringPtr(data, "mailingAddress"),
		MailingCity:           stringPtr(data, "mailingCity"),
		MailingState:          stringPtr(data, "mailingState"),
		MailingPostalCode:     stringPtr(data, "mailingZip"),
		MailingHousingStatus:  MapHousingStatus(stringField(data, "housingStatus")),
		MailingYearsAtAddress: toDecimal(data["yearsAtAddress"]),

		EmployerName:         stringPtr(data, "employerName"),
		EmployerPosition:     stringPtr(data, "employerPosition"),
		EmployerPhone:        stringPtr(data, "employerPhone"),
		EmploymentStartDate:  isoDateOnly(data["employmentStartDate"]),
		SelfEmployed:         boolPtr(data, "selfEmployed"),
		IncomeClassification: MapIncomeClassification(stringField(data, "employmentStatus")),
		MonthlyIncome:        monthlyIncome(data["annualIncome"]),
	}

	return p
}

// toDecimal converts any numeric-like value to a plain number. Already-numeric
// values pass through, json.Number uses its own conversion, strings get a
// generic parse. Anything else, a failed parse, or NaN yields nil.
func toDecimal(v interface{}) *float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// decomposeDOB derives day-of-month and month-of-year as decimal strings plus
// the combined YYYY-MM-DD string, all from UTC calendar fields so the date
// never shifts across time zones. Absent or unparseable input yields three nils.
func decomposeDOB(v interface{}) (day, month, iso *string) {
	t, ok := parseDate(v)
	if !ok {
		return nil, nil, nil
	}
	t = t.UTC()
	d := strconv.Itoa(t.Day())
	m := strconv.Itoa(int(t.Month()))
	c := t.Format("2006-01-02")
	return &d, &m, &c
}

// isoDateOnly reduces a date value to the YYYY-MM-DD portion of its ISO form.
func isoDateOnly(v interface{}) *string {
	t, ok := parseDate(v)
	if !ok {
		return nil
	}
	s := t.UTC().Format("2006-01-02")
	return &s
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02",
}

func parseDate(v interface{}) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// yearsToMonths converts a loan term stored in years to the months the LOS
// expects. A missing term stays nil, never zero.
func yearsToMonths(v interface{}) *int {
	years := toDecimal(v)
	if years == nil {
		return nil
	}
	months := int(math.Round(*years * 12))
	return &months
}

// monthlyIncome derives monthly income from annual income, rounded to the
// nearest integer. A missing annual income stays nil, never zero.
func monthlyIncome(v interface{}) *int {
	annual := toDecimal(v)
	if annual == nil {
		return nil
	}
	monthly := int(math.Round(*annual / 12))
	return &monthly
}

// financedUnits defaults to 1 when the record carries no explicit unit count.
// This is the one field with a non-nil default.
func financedUnits(v interface{}) int {
	units := toDecimal(v)
	if units == nil {
		return 1
	}
	return int(math.Round(*units))
}

func preferredLanguage(data map[string]interface{}) string {
	if lang := stringField(data, "preferredLanguage"); lang != "" {
		return lang
	}
	return "english"
}

// stringField returns the field as a string, or "" when absent or not a string.
func stringField(data map[string]interface{}, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

// stringPtr returns a pointer to the field's string value, nil when absent or empty.
func stringPtr(data map[string]interface{}, key string) *string {
	if s, ok := data[key].(string); ok && s != "" {
		return &s
	}
	return nil
}

func boolPtr(data map[string]interface{}, key string) *bool {
	if b, ok := data[key].(bool); ok {
		return &b
	}
	return nil
}
