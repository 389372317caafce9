package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func june(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func validClaim() *ClaimContext {
	c := &ClaimContext{
		Year:  2024,
		Month: 6,
		Patient: Patient{
			ID:        "P0001",
			Name:      "山田 太郎",
			BirthDate: time.Date(1960, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		Card: InsuranceCard{Type: CardSocial, InsurerNumber: "06130012"},
		PublicExpenses: []PublicExpense{
			{LegalCategory: "54", PayerNumber: "54136015", Priority: 1},
			{LegalCategory: "51", PayerNumber: "51136018", Priority: 2},
		},
		Visits: []VisitRecord{
			{Date: june(3), StartTime: "10:00", ServiceCode: "510000110", Points: 555, Amount: 5550},
			{Date: june(10), StartTime: "10:00", ServiceCode: "510000110", Points: 555, Amount: 5550},
		},
		Bonuses: []BonusRecord{
			{Date: june(3), ServiceCode: "510002470", Points: 250, Amount: 2500},
		},
		TotalPoints: 1360,
		TotalAmount: 13600,
	}
	return c
}

func TestClaimContext_ValidateAccepts(t *testing.T) {
	require.NoError(t, validClaim().Validate())
}

func TestClaimContext_ValidateInvariants(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ClaimContext)
		problem string
	}{
		{
			"duplicate priority",
			func(c *ClaimContext) { c.PublicExpenses[1].Priority = 1 },
			"public expense priority 1 used twice",
		},
		{
			"priority gap",
			func(c *ClaimContext) { c.PublicExpenses[1].Priority = 3 },
			"public expense 51136018: priority 3 outside 1..2",
		},
		{
			"priority zero",
			func(c *ClaimContext) { c.PublicExpenses[0].Priority = 0 },
			"public expense 54136015: priority 0 outside 1..2",
		},
		{
			"five public expenses",
			func(c *ClaimContext) {
				c.PublicExpenses = nil
				for p := 1; p <= 5; p++ {
					c.PublicExpenses = append(c.PublicExpenses, PublicExpense{PayerNumber: "54136015", Priority: p})
				}
			},
			"5 public expenses, at most 4 allowed",
		},
		{
			"two service ends",
			func(c *ClaimContext) {
				c.Visits[0].ServiceEnd = true
				c.Visits[1].ServiceEnd = true
			},
			"2 visits flagged as service end, at most 1 allowed",
		},
		{
			"visit amount off",
			func(c *ClaimContext) { c.Visits[1].Amount = 5551 },
			"visit 2: amount 5551 != points 555 x 10",
		},
		{
			"bonus amount off",
			func(c *ClaimContext) { c.Bonuses[0].Amount = 250 },
			"bonus 1: amount 250 != points 250 x 10",
		},
		{
			"bonus without code",
			func(c *ClaimContext) { c.Bonuses[0].ServiceCode = "" },
			"bonus 1: service code is required",
		},
		{
			"total amount off",
			func(c *ClaimContext) { c.TotalAmount = 13599 },
			"total amount 13599 != total points 1360 x 10",
		},
		{
			"no visits",
			func(c *ClaimContext) { c.Visits = nil },
			"claim has no visit records",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validClaim()
			tt.mutate(c)
			err := c.Validate()

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "want ValidationError, got %v", err)
			assert.Equal(t, "claim P0001", vErr.Subject)
			assert.Contains(t, vErr.Problems, tt.problem)
		})
	}
}

func TestClaimContext_ValidateCollectsEveryProblem(t *testing.T) {
	c := validClaim()
	c.PublicExpenses[1].Priority = 1
	c.Bonuses[0].Amount = 0
	c.TotalAmount = 0

	var vErr *ValidationError
	require.True(t, errors.As(c.Validate(), &vErr))
	assert.Len(t, vErr.Problems, 3)
}

func TestClaimContext_ValidateMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *ClaimContext)
		field  string
	}{
		{"name", func(c *ClaimContext) { c.Patient.Name = "" }, "patient_name"},
		{"birth date", func(c *ClaimContext) { c.Patient.BirthDate = time.Time{} }, "birth_date"},
		{"service code", func(c *ClaimContext) { c.Visits[1].ServiceCode = "" }, "service_code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validClaim()
			tt.mutate(c)

			var missing *MissingFieldError
			require.True(t, errors.As(c.Validate(), &missing))
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestClaimContext_SortedVisits(t *testing.T) {
	c := &ClaimContext{Visits: []VisitRecord{
		{Date: june(5), StartTime: "14:00", ServiceCode: "b"},
		{Date: june(5), StartTime: "10:00", ServiceCode: "a2"},
		{Date: june(5), StartTime: "9:30", ServiceCode: "a1"},
		{Date: june(2), StartTime: "16:00", ServiceCode: "z"},
	}}

	var got []string
	for _, v := range c.SortedVisits() {
		got = append(got, v.ServiceCode)
	}
	assert.Equal(t, []string{"z", "a1", "a2", "b"}, got)
	assert.Equal(t, "14:00", c.Visits[0].StartTime, "input order is left alone")
}

func TestClaimContext_SortedPublicExpenses(t *testing.T) {
	c := &ClaimContext{PublicExpenses: []PublicExpense{
		{PayerNumber: "second", Priority: 2},
		{PayerNumber: "first", Priority: 1},
	}}
	got := c.SortedPublicExpenses()
	assert.Equal(t, "first", got[0].PayerNumber)
	assert.Equal(t, "second", got[1].PayerNumber)
}
