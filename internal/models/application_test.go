package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoanApplication_BorrowerID(t *testing.T) {
	newID := "user-7"
	legacyID := "legacy-3"
	empty := ""

	tests := []struct {
		name           string
		app            LoanApplication
		expectedID     string
		expectedLegacy bool
	}{
		{"new id only", LoanApplication{NewUserID: &newID}, "user-7", false},
		{"legacy id only", LoanApplication{LegacyUserID: &legacyID}, "legacy-3", true},
		{"new id wins over legacy", LoanApplication{NewUserID: &newID, LegacyUserID: &legacyID}, "user-7", false},
		{"empty new id falls through", LoanApplication{NewUserID: &empty, LegacyUserID: &legacyID}, "legacy-3", true},
		{"no ids", LoanApplication{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, legacy := tt.app.BorrowerID()
			assert.Equal(t, tt.expectedID, id)
			assert.Equal(t, tt.expectedLegacy, legacy)
		})
	}
}
