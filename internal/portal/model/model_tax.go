package model

/**
 * @file: model_tax.go
 * @description: tax bracket and declaration models
 */

// Bracket types.
const (
	BracketIncome = "income"
	BracketWealth = "wealth"
)

type TaxBracket struct {
	BaseModel
	BracketId   string   `gorm:"column:bracket_id;uniqueIndex" json:"bracketId"`
	BracketType string   `gorm:"column:bracket_type;index" json:"bracketType"`
	MinAmount   float64  `gorm:"column:min_amount" json:"minAmount"`
	MaxAmount   *float64 `gorm:"column:max_amount" json:"maxAmount"` // nil for the unbounded top bracket
	TaxRate     float64  `gorm:"column:tax_rate" json:"taxRate"`
	IsActive    bool     `gorm:"column:is_active;default:true" json:"isActive"`
}

func (TaxBracket) TableName() string {
	return "t_tax_bracket"
}

type TaxDeclaration struct {
	BaseModel
	DeclarationId string  `gorm:"column:declaration_id;uniqueIndex" json:"declarationId"`
	EnterpriseId  string  `gorm:"column:enterprise_id;index" json:"enterpriseId"`
	UserId        string  `gorm:"column:user_id" json:"userId"`
	Period        string  `gorm:"column:period" json:"period"`
	TotalIncome   float64 `gorm:"column:total_income;default:0" json:"totalIncome"`
	TaxableIncome float64 `gorm:"column:taxable_income;default:0" json:"taxableIncome"`
	Allowances    float64 `gorm:"column:allowances;default:0" json:"allowances"`
	Wealth        float64 `gorm:"column:wealth;default:0" json:"wealth"`
	IncomeTax     float64 `gorm:"column:income_tax;default:0" json:"incomeTax"`
	WealthTax     float64 `gorm:"column:wealth_tax;default:0" json:"wealthTax"`
	TotalTax      float64 `gorm:"column:total_tax;default:0" json:"totalTax"`
	Status        string  `gorm:"column:status;default:pending" json:"status"`
	Notes         string  `gorm:"column:notes;type:text" json:"notes"`
}

func (TaxDeclaration) TableName() string {
	return "t_tax_declaration"
}

type AddDeclarationReq struct {
	Period        string  `json:"period"`
	TotalIncome   float64 `json:"totalIncome"`
	TaxableIncome float64 `json:"taxableIncome"`
	Allowances    float64 `json:"allowances"`
	Wealth        float64 `json:"wealth"`
	Notes         string  `json:"notes"`
}

type CalculateTaxReq struct {
	TaxableIncome float64 `json:"taxableIncome"`
	Allowances    float64 `json:"allowances"`
	Wealth        float64 `json:"wealth"`
}

// TaxComputation is the result of one bracket scan.
type TaxComputation struct {
	Tax          float64 `json:"tax"`
	BracketLabel string  `json:"bracketLabel"`
	Rate         float64 `json:"rate"`
}

// DeclarationComputation aggregates the income and wealth passes.
type DeclarationComputation struct {
	Income   TaxComputation `json:"income"`
	Wealth   TaxComputation `json:"wealth"`
	TotalTax float64        `json:"totalTax"`
}

type AddBracketReq struct {
	BracketType string   `json:"bracketType"`
	MinAmount   float64  `json:"minAmount"`
	MaxAmount   *float64 `json:"maxAmount"`
	TaxRate     float64  `json:"taxRate"`
}
