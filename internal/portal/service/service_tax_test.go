package service

import (
	"testing"

	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTaxService(t *testing.T) (*TaxService, *fakeTaxRepo) {
	t.Helper()
	taxRepo := newFakeTaxRepo()
	require.NoError(t, taxRepo.SeedBrackets(DefaultBrackets()))
	return NewTaxService(taxRepo, newTestAudit()), taxRepo
}

func TestCalculateForAmount(t *testing.T) {
	brackets := DefaultBrackets()[:3]

	tests := []struct {
		name   string
		amount float64
		tax    float64
		rate   float64
		label  string
	}{
		{"zero amount", 0, 0, 0, "0 - 0"},
		{"negative amount", -50, 0, 0, "0 - 0"},
		{"first bracket floor", 1, 0.1, 10, "0 - 100000"},
		{"first bracket", 50000, 5000, 10, "0 - 100000"},
		{"first bracket ceiling", 100000, 10000, 10, "0 - 100000"},
		{"second bracket", 200000, 14999.85, 15, "100001 - 500000"},
		{"open bracket", 600000, 19999.80, 20, "500001 - ∞"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateForAmount(tt.amount, brackets)
			require.NoError(t, err)
			assert.InDelta(t, tt.tax, got.Tax, 0.001)
			assert.InDelta(t, tt.rate, got.Rate, 0.001)
			assert.Equal(t, tt.label, got.BracketLabel)
		})
	}
}

func TestCalculateForAmountNoBrackets(t *testing.T) {
	got, err := CalculateForAmount(12345, nil)
	require.NoError(t, err)
	assert.Zero(t, got.Tax)
	assert.Equal(t, "0 - 0", got.BracketLabel)
}

func TestCalculateForAmountCoverageGap(t *testing.T) {
	limit := func(v float64) *float64 { return &v }
	brackets := []model.TaxBracket{
		{BracketType: model.BracketIncome, MinAmount: 0, MaxAmount: limit(100), TaxRate: 0.10},
	}

	_, err := CalculateForAmount(500, brackets)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCalculateAppliesAllowances(t *testing.T) {
	ts, _ := newTestTaxService(t)

	got, err := ts.Calculate(model.CalculateTaxReq{
		TaxableIncome: 60000,
		Allowances:    10000,
		Wealth:        20000,
	})
	require.NoError(t, err)

	// income: (50000 - 0) * 0.10, wealth: (20000 - 0) * 0.05
	assert.InDelta(t, 5000, got.Income.Tax, 0.001)
	assert.InDelta(t, 1000, got.Wealth.Tax, 0.001)
	assert.InDelta(t, 6000, got.TotalTax, 0.001)
}

func TestCalculateAllowancesExceedIncome(t *testing.T) {
	ts, _ := newTestTaxService(t)

	got, err := ts.Calculate(model.CalculateTaxReq{
		TaxableIncome: 5000,
		Allowances:    9000,
	})
	require.NoError(t, err)
	assert.Zero(t, got.Income.Tax)
	assert.Equal(t, "0 - 0", got.Income.BracketLabel)
}

func TestCreateDeclaration(t *testing.T) {
	ts, taxRepo := newTestTaxService(t)
	rc := RecordCtx{UserId: "u1"}

	d, err := ts.CreateDeclaration(rc, "ent1", model.AddDeclarationReq{
		Period:        "2026-01",
		TotalIncome:   80000,
		TaxableIncome: 60000,
		Allowances:    10000,
		Wealth:        20000,
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, d.Status)
	assert.InDelta(t, 5000, d.IncomeTax, 0.001)
	assert.InDelta(t, 1000, d.WealthTax, 0.001)
	assert.InDelta(t, 6000, d.TotalTax, 0.001)

	stored, err := taxRepo.GetDeclaration(d.DeclarationId)
	require.NoError(t, err)
	assert.Equal(t, "ent1", stored.EnterpriseId)
}

func TestCreateDeclarationRequiresPeriod(t *testing.T) {
	ts, _ := newTestTaxService(t)

	_, err := ts.CreateDeclaration(RecordCtx{}, "ent1", model.AddDeclarationReq{})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdateDeclarationStatus(t *testing.T) {
	ts, _ := newTestTaxService(t)
	d, err := ts.CreateDeclaration(RecordCtx{}, "ent1", model.AddDeclarationReq{Period: "2026-01"})
	require.NoError(t, err)

	require.NoError(t, ts.UpdateDeclarationStatus(RecordCtx{}, d.DeclarationId, model.StatusApproved))

	got, err := ts.GetDeclaration(d.DeclarationId)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)

	err = ts.UpdateDeclarationStatus(RecordCtx{}, d.DeclarationId, "bogus")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestAddBracketValidation(t *testing.T) {
	ts, _ := newTestTaxService(t)

	_, err := ts.AddBracket(RecordCtx{}, model.AddBracketReq{BracketType: "bogus", TaxRate: 0.1})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = ts.AddBracket(RecordCtx{}, model.AddBracketReq{BracketType: model.BracketIncome, TaxRate: 1.5})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	bad := 10.0
	_, err = ts.AddBracket(RecordCtx{}, model.AddBracketReq{
		BracketType: model.BracketIncome, MinAmount: 100, MaxAmount: &bad, TaxRate: 0.1,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestEnsureDefaultBrackets(t *testing.T) {
	taxRepo := newFakeTaxRepo()
	ts := NewTaxService(taxRepo, newTestAudit())

	require.NoError(t, ts.EnsureDefaultBrackets())
	total, err := taxRepo.CountBrackets()
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)

	// Idempotent on a populated table.
	require.NoError(t, ts.EnsureDefaultBrackets())
	total, err = taxRepo.CountBrackets()
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
}
