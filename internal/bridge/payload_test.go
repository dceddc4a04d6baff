package bridge

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"los-bridge/internal/models"
)

// ============================================================================
// Helpers
// ============================================================================

func appWithData(data map[string]interface{}) *models.LoanApplication {
	return &models.LoanApplication{
		ID:     "app-1",
		Status: "submitted",
		Data:   data,
	}
}

func floatPtr(f float64) *float64 { return &f }

// ============================================================================
// Numeric coercion
// ============================================================================

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected *float64
	}{
		{"nil", nil, nil},
		{"float64", 350000.0, floatPtr(350000)},
		{"float32", float32(2.5), floatPtr(2.5)},
		{"int", 30, floatPtr(30)},
		{"int64", int64(7), floatPtr(7)},
		{"json number", json.Number("99.5"), floatPtr(99.5)},
		{"numeric string", "720", floatPtr(720)},
		{"non-numeric string", "abc", nil},
		{"empty string", "", nil},
		{"bool", true, nil},
		{"map", map[string]interface{}{}, nil},
		{"NaN", math.NaN(), nil},
		{"positive infinity", math.Inf(1), nil},
		{"negative infinity", math.Inf(-1), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toDecimal(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 0.0001)
		})
	}
}

// ============================================================================
// Date handling
// ============================================================================

func TestDecomposeDOB(t *testing.T) {
	t.Run("date-only string", func(t *testing.T) {
		day, month, iso := decomposeDOB("1990-05-03")
		require.NotNil(t, day)
		require.NotNil(t, month)
		require.NotNil(t, iso)
		assert.Equal(t, "3", *day)
		assert.Equal(t, "5", *month)
		assert.Equal(t, "1990-05-03", *iso)
	})

	t.Run("timestamp with offset uses UTC calendar date", func(t *testing.T) {
		// 1990-05-03T22:00:00-05:00 is 1990-05-04 in UTC.
		day, month, iso := decomposeDOB("1990-05-03T22:00:00-05:00")
		require.NotNil(t, day)
		assert.Equal(t, "4", *day)
		assert.Equal(t, "5", *month)
		assert.Equal(t, "1990-05-04", *iso)
	})

	t.Run("absent", func(t *testing.T) {
		day, month, iso := decomposeDOB(nil)
		assert.Nil(t, day)
		assert.Nil(t, month)
		assert.Nil(t, iso)
	})

	t.Run("unparseable", func(t *testing.T) {
		day, month, iso := decomposeDOB("not a date")
		assert.Nil(t, day)
		assert.Nil(t, month)
		assert.Nil(t, iso)
	})
}

func TestIsoDateOnly(t *testing.T) {
	got := isoDateOnly("2021-03-15T10:30:00Z")
	require.NotNil(t, got)
	assert.Equal(t, "2021-03-15", *got)

	assert.Nil(t, isoDateOnly(nil))
	assert.Nil(t, isoDateOnly(42))
}

// ============================================================================
// Derived fields
// ============================================================================

func TestYearsToMonths(t *testing.T) {
	got := yearsToMonths(30)
	require.NotNil(t, got)
	assert.Equal(t, 360, *got)

	got = yearsToMonths(15.0)
	require.NotNil(t, got)
	assert.Equal(t, 180, *got)

	assert.Nil(t, yearsToMonths(nil))
	assert.Nil(t, yearsToMonths("thirty"))
}

func TestMonthlyIncome(t *testing.T) {
	got := monthlyIncome(60000)
	require.NotNil(t, got)
	assert.Equal(t, 5000, *got)

	// 65000 / 12 = 5416.66..., rounds to 5417
	got = monthlyIncome(65000.0)
	require.NotNil(t, got)
	assert.Equal(t, 5417, *got)

	assert.Nil(t, monthlyIncome(nil))
}

func TestFinancedUnits(t *testing.T) {
	assert.Equal(t, 1, financedUnits(nil))
	assert.Equal(t, 1, financedUnits("four"))
	assert.Equal(t, 3, financedUnits(3))
	assert.Equal(t, 2, financedUnits(2.0))
}

// ============================================================================
// Payload assembly
// ============================================================================

func TestBuildPayload_CompleteApplication(t *testing.T) {
	app := appWithData(map[string]interface{}{
		"productType":            "purchase",
		"mortgageType":           "fha",
		"amortizationType":       "fixed",
		"loanAmount":             350000.0,
		"loanTerm":               30.0,
		"downPayment":            70000.0,
		"estimatedPropertyValue": 420000.0,
		"propertyAddress":        "12 Oak St",
		"propertyCity":           "Austin",
		"propertyState":          "TX",
		"propertyCounty":         "Travis",
		"propertyZip":            "78701",
		"propertyType":           "condo",
		"propertyUsage":          "investment",
		"unitCount":              2.0,
		"dateOfBirth":            "1990-05-03",
		"maritalStatus":          "married",
		"firstTimeBuyer":         true,
		"preferredLanguage":      "spanish",
		"creditScore":            "720",
		"mailingAddress":         "99 Elm Ave",
		"mailingCity":            "Austin",
		"mailingState":           "TX",
		"mailingZip":             "78702",
		"housingStatus":          "own",
		"yearsAtAddress":         4.5,
		"employerName":           "Acme Corp",
		"employerPosition":       "Engineer",
		"employerPhone":          "555-0100",
		"employmentStartDate":    "2019-02-01",
		"employmentStatus":       "military",
		"selfEmployed":           false,
		"annualIncome":           60000.0,
	})

	p := BuildPayload(app)

	assert.Equal(t, "Customer Portal", p.LeadSource)
	assert.Equal(t, "Online Application", p.OriginationChannel)

	assert.Equal(t, "Purchase", p.LoanPurpose)
	assert.Equal(t, "FHA", p.MortgageType)
	assert.Equal(t, "Fixed", p.AmortizationType)
	require.NotNil(t, p.BaseLoanAmount)
	assert.Equal(t, 350000.0, *p.BaseLoanAmount)
	require.NotNil(t, p.LoanTerm)
	assert.Equal(t, 360, *p.LoanTerm)
	require.NotNil(t, p.AmortizationTerm)
	assert.Equal(t, 360, *p.AmortizationTerm)
	require.NotNil(t, p.DownPayment)
	assert.Equal(t, 70000.0, *p.DownPayment)

	require.NotNil(t, p.SubjectPropertyAddress)
	assert.Equal(t, "12 Oak St", *p.SubjectPropertyAddress)
	assert.Equal(t, "Condominium", p.SubjectPropertyHousingType)
	assert.Equal(t, "InvestmentProperty", p.SubjectPropertyUsageType)
	require.NotNil(t, p.SubjectPropertyEstimatedValue)
	assert.Equal(t, 420000.0, *p.SubjectPropertyEstimatedValue)
	assert.Equal(t, 2, p.SubjectPropertyFinancedUnits)

	require.NotNil(t, p.BorrowerBirthDay)
	assert.Equal(t, "3", *p.BorrowerBirthDay)
	require.NotNil(t, p.BorrowerBirthMonth)
	assert.Equal(t, "5", *p.BorrowerBirthMonth)
	require.NotNil(t, p.BorrowerDateOfBirth)
	assert.Equal(t, "1990-05-03", *p.BorrowerDateOfBirth)
	assert.Equal(t, "Married", p.BorrowerMaritalStatus)
	require.NotNil(t, p.BorrowerFirstTimeBuyer)
	assert.True(t, *p.BorrowerFirstTimeBuyer)
	assert.Equal(t, "spanish", p.BorrowerPreferredLanguage)
	require.NotNil(t, p.BorrowerCreditScore)
	assert.Equal(t, 720.0, *p.BorrowerCreditScore)

	assert.Equal(t, "Own", p.MailingHousingStatus)
	require.NotNil(t, p.MailingYearsAtAddress)
	assert.Equal(t, 4.5, *p.MailingYearsAtAddress)

	require.NotNil(t, p.EmployerName)
	assert.Equal(t, "Acme Corp", *p.EmployerName)
	require.NotNil(t, p.EmploymentStartDate)
	assert.Equal(t, "2019-02-01", *p.EmploymentStartDate)
	require.NotNil(t, p.SelfEmployed)
	assert.False(t, *p.SelfEmployed)
	assert.Equal(t, "MilitaryPay", p.IncomeClassification)
	require.NotNil(t, p.MonthlyIncome)
	assert.Equal(t, 5000, *p.MonthlyIncome)

	// Identity fields stay nil until the profile lookup fills them.
	assert.Nil(t, p.BorrowerFirstName)
	assert.Nil(t, p.BorrowerLastName)
	assert.Nil(t, p.BorrowerEmail)
	assert.Nil(t, p.BorrowerMobilePhone)
}

func TestBuildPayload_EmptyApplication(t *testing.T) {
	p := BuildPayload(appWithData(nil))

	// Constants and defaults survive an entirely empty record.
	assert.Equal(t, "Customer Portal", p.LeadSource)
	assert.Equal(t, "Online Application", p.OriginationChannel)
	assert.Equal(t, "Purchase", p.LoanPurpose)
	assert.Equal(t, "Conventional", p.MortgageType)
	assert.Equal(t, "Fixed", p.AmortizationType)
	assert.Equal(t, "Single Family", p.SubjectPropertyHousingType)
	assert.Equal(t, "PrimaryResidence", p.SubjectPropertyUsageType)
	assert.Equal(t, 1, p.SubjectPropertyFinancedUnits)
	assert.Equal(t, "Unmarried", p.BorrowerMaritalStatus)
	assert.Equal(t, "english", p.BorrowerPreferredLanguage)
	assert.Equal(t, "Rent", p.MailingHousingStatus)
	assert.Equal(t, "Primary", p.IncomeClassification)

	// Everything without a default is nil, never zero.
	assert.Nil(t, p.BaseLoanAmount)
	assert.Nil(t, p.LoanTerm)
	assert.Nil(t, p.AmortizationTerm)
	assert.Nil(t, p.DownPayment)
	assert.Nil(t, p.BorrowerBirthDay)
	assert.Nil(t, p.BorrowerBirthMonth)
	assert.Nil(t, p.BorrowerDateOfBirth)
	assert.Nil(t, p.BorrowerFirstTimeBuyer)
	assert.Nil(t, p.MonthlyIncome)
	assert.Nil(t, p.MailingYearsAtAddress)
}

func TestBuildPayload_MalformedValuesYieldNil(t *testing.T) {
	p := BuildPayload(appWithData(map[string]interface{}{
		"loanAmount":   "lots",
		"loanTerm":     map[string]interface{}{"years": 30},
		"annualIncome": true,
		"dateOfBirth":  "05/03/1990",
		"creditScore":  "",
	}))

	assert.Nil(t, p.BaseLoanAmount)
	assert.Nil(t, p.LoanTerm)
	assert.Nil(t, p.MonthlyIncome)
	assert.Nil(t, p.BorrowerDateOfBirth)
	assert.Nil(t, p.BorrowerCreditScore)
}

func TestPayload_WireFieldNames(t *testing.T) {
	raw, err := json.Marshal(BuildPayload(appWithData(map[string]interface{}{
		"loanAmount": 100000.0,
	})))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// Spot-check the flat LOS field names, including that absent values
	// marshal as explicit nulls rather than disappearing.
	assert.Equal(t, "Customer Portal", decoded["leadSource"])
	assert.Equal(t, "Online Application", decoded["loanOriginationChannel"])
	assert.Equal(t, 100000.0, decoded["baseLoanAmount"])

	for _, key := range []string{
		"loanTerm",
		"subjectProperty_addressLine",
		"loanBorrowers_firstName",
		"loanBorrowers_birthDayOfMonth",
		"mailingAddress_durationTermYears",
		"employment_monthlyIncomeAmount",
	} {
		v, present := decoded[key]
		assert.True(t, present, "expected key %q in payload", key)
		assert.Nil(t, v, "expected key %q to be null", key)
	}
}
