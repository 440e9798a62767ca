package service

import (
	"fmt"
	"math"

	"github.com/go-portal/portal/internal/portal/consts"
	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/internal/portal/repo"
	"github.com/go-portal/portal/pkg/apperr"
	"github.com/go-portal/portal/pkg/id"
	"github.com/go-portal/portal/pkg/log"
)

/**
 * @file: service_tax.go
 * @description: progressive tax calculation, brackets and declarations
 */

type TaxService struct {
	taxRepo repo.ITaxRepository
	audit   *AuditService
}

func NewTaxService(taxRepo repo.ITaxRepository, audit *AuditService) *TaxService {
	return &TaxService{taxRepo: taxRepo, audit: audit}
}

// CalculateForAmount scans pre-sorted brackets and taxes only the
// slice above the matched bracket's floor: tax = (amount - min) * rate.
// Zero or negative amounts and an empty bracket list yield zero tax.
// An amount matching no bracket violates the coverage invariant and is
// a validation error.
func CalculateForAmount(amount float64, brackets []model.TaxBracket) (model.TaxComputation, error) {
	if len(brackets) == 0 || amount <= 0 {
		return model.TaxComputation{
			Tax:          0,
			BracketLabel: "0 - 0",
			Rate:         0,
		}, nil
	}

	for _, bracket := range brackets {
		if amount >= bracket.MinAmount && (bracket.MaxAmount == nil || amount <= *bracket.MaxAmount) {
			tax := (amount - bracket.MinAmount) * bracket.TaxRate
			return model.TaxComputation{
				Tax:          math.Round(tax*100) / 100,
				BracketLabel: bracketLabel(bracket),
				Rate:         bracket.TaxRate * 100,
			}, nil
		}
	}

	return model.TaxComputation{}, apperr.Newf(apperr.KindValidation,
		"no tax bracket matches amount %.2f, bracket coverage is broken", amount)
}

func bracketLabel(b model.TaxBracket) string {
	if b.MaxAmount == nil {
		return fmt.Sprintf("%.0f - ∞", b.MinAmount)
	}
	return fmt.Sprintf("%.0f - %.0f", b.MinAmount, *b.MaxAmount)
}

// Calculate runs the income pass against max(0, taxableIncome -
// allowances) and the wealth pass against raw wealth; totals add up.
func (ts *TaxService) Calculate(req model.CalculateTaxReq) (*model.DeclarationComputation, error) {
	taxableBase := math.Max(0, req.TaxableIncome-req.Allowances)

	incomeBrackets, err := ts.taxRepo.ListBrackets(model.BracketIncome)
	if err != nil {
		return nil, err
	}
	income, err := CalculateForAmount(taxableBase, incomeBrackets)
	if err != nil {
		return nil, err
	}

	wealthBrackets, err := ts.taxRepo.ListBrackets(model.BracketWealth)
	if err != nil {
		return nil, err
	}
	wealth, err := CalculateForAmount(req.Wealth, wealthBrackets)
	if err != nil {
		return nil, err
	}

	return &model.DeclarationComputation{
		Income:   income,
		Wealth:   wealth,
		TotalTax: income.Tax + wealth.Tax,
	}, nil
}

func (ts *TaxService) CreateDeclaration(rc RecordCtx, enterpriseId string, req model.AddDeclarationReq) (*model.TaxDeclaration, error) {
	if req.Period == "" {
		return nil, apperr.Validation("period is required")
	}

	computation, err := ts.Calculate(model.CalculateTaxReq{
		TaxableIncome: req.TaxableIncome,
		Allowances:    req.Allowances,
		Wealth:        req.Wealth,
	})
	if err != nil {
		return nil, err
	}

	declaration := &model.TaxDeclaration{
		DeclarationId: id.GetUUID(),
		EnterpriseId:  enterpriseId,
		UserId:        rc.UserId,
		Period:        req.Period,
		TotalIncome:   req.TotalIncome,
		TaxableIncome: req.TaxableIncome,
		Allowances:    req.Allowances,
		Wealth:        req.Wealth,
		IncomeTax:     computation.Income.Tax,
		WealthTax:     computation.Wealth.Tax,
		TotalTax:      computation.TotalTax,
		Status:        model.StatusPending,
		Notes:         req.Notes,
	}

	if err := ts.taxRepo.CreateDeclaration(declaration); err != nil {
		return nil, err
	}

	ts.audit.Record(rc, consts.ActionCreate, declaration.TableName(), declaration.DeclarationId,
		nil, map[string]any{
			"period":   declaration.Period,
			"totalTax": declaration.TotalTax,
		})

	return declaration, nil
}

func (ts *TaxService) GetDeclaration(declarationId string) (*model.TaxDeclaration, error) {
	d, err := ts.taxRepo.GetDeclaration(declarationId)
	if err != nil {
		return nil, notFoundOr(err, "tax declaration not found")
	}
	return d, nil
}

func (ts *TaxService) ListDeclarations(enterpriseId, status string, page model.Pagination) (*model.PageResult[model.TaxDeclaration], error) {
	page.Normalize()
	declarations, total, err := ts.taxRepo.ListDeclarations(enterpriseId, status, page.Offset(), page.PageSize)
	if err != nil {
		return nil, err
	}
	return &model.PageResult[model.TaxDeclaration]{List: declarations, Total: total}, nil
}

func (ts *TaxService) UpdateDeclarationStatus(rc RecordCtx, declarationId, status string) error {
	if status != model.StatusPending && status != model.StatusApproved && status != model.StatusRejected {
		return apperr.Validation("invalid declaration status")
	}

	old, err := ts.taxRepo.GetDeclaration(declarationId)
	if err != nil {
		return notFoundOr(err, "tax declaration not found")
	}

	if err := ts.taxRepo.UpdateDeclarationStatus(declarationId, status); err != nil {
		return err
	}

	ts.audit.Record(rc, consts.ActionStatusChange, old.TableName(), declarationId,
		map[string]any{"status": old.Status},
		map[string]any{"status": status})

	return nil
}

func (ts *TaxService) ListBrackets(bracketType string) ([]model.TaxBracket, error) {
	if bracketType != model.BracketIncome && bracketType != model.BracketWealth {
		return nil, apperr.Validation("unknown bracket type")
	}
	return ts.taxRepo.ListBrackets(bracketType)
}

func (ts *TaxService) AddBracket(rc RecordCtx, req model.AddBracketReq) (*model.TaxBracket, error) {
	if req.BracketType != model.BracketIncome && req.BracketType != model.BracketWealth {
		return nil, apperr.Validation("unknown bracket type")
	}
	if req.TaxRate < 0 || req.TaxRate > 1 {
		return nil, apperr.Validation("tax rate must be between 0 and 1")
	}
	if req.MaxAmount != nil && *req.MaxAmount < req.MinAmount {
		return nil, apperr.Validation("max amount must not be below min amount")
	}

	bracket := &model.TaxBracket{
		BracketId:   id.GetUUID(),
		BracketType: req.BracketType,
		MinAmount:   req.MinAmount,
		MaxAmount:   req.MaxAmount,
		TaxRate:     req.TaxRate,
		IsActive:    true,
	}
	if err := ts.taxRepo.AddBracket(bracket); err != nil {
		return nil, err
	}

	ts.audit.Record(rc, consts.ActionCreate, bracket.TableName(), bracket.BracketId,
		nil, map[string]any{
			"bracketType": bracket.BracketType,
			"minAmount":   bracket.MinAmount,
			"taxRate":     bracket.TaxRate,
		})

	return bracket, nil
}

func (ts *TaxService) DeleteBracket(rc RecordCtx, bracketId string) error {
	if err := ts.taxRepo.DeleteBracket(bracketId); err != nil {
		return notFoundOr(err, "tax bracket not found")
	}
	ts.audit.Record(rc, consts.ActionDelete, (&model.TaxBracket{}).TableName(), bracketId, nil, nil)
	return nil
}

// EnsureDefaultBrackets seeds the default progressive brackets on an
// empty table. Called once at startup.
func (ts *TaxService) EnsureDefaultBrackets() error {
	total, err := ts.taxRepo.CountBrackets()
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	log.Info("seeding default tax brackets")
	return ts.taxRepo.SeedBrackets(DefaultBrackets())
}

// DefaultBrackets returns the built-in income and wealth brackets.
func DefaultBrackets() []model.TaxBracket {
	limit := func(v float64) *float64 { return &v }

	return []model.TaxBracket{
		{BracketId: id.GetUUID(), BracketType: model.BracketIncome, MinAmount: 0, MaxAmount: limit(100000), TaxRate: 0.10, IsActive: true},
		{BracketId: id.GetUUID(), BracketType: model.BracketIncome, MinAmount: 100001, MaxAmount: limit(500000), TaxRate: 0.15, IsActive: true},
		{BracketId: id.GetUUID(), BracketType: model.BracketIncome, MinAmount: 500001, MaxAmount: nil, TaxRate: 0.20, IsActive: true},
		{BracketId: id.GetUUID(), BracketType: model.BracketWealth, MinAmount: 0, MaxAmount: limit(100000), TaxRate: 0.05, IsActive: true},
		{BracketId: id.GetUUID(), BracketType: model.BracketWealth, MinAmount: 100001, MaxAmount: limit(500000), TaxRate: 0.10, IsActive: true},
		{BracketId: id.GetUUID(), BracketType: model.BracketWealth, MinAmount: 500001, MaxAmount: nil, TaxRate: 0.15, IsActive: true},
	}
}
