package service

import (
	"os"
	"sync"
	"testing"

	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/pkg/log"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	log.MustInit(log.SetDefaults())
	os.Exit(m.Run())
}

var errNotFound = gorm.ErrRecordNotFound

// In-memory repository fakes shared by the service tests.

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Add(entry *model.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(q model.AuditQuery) ([]model.AuditLog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.AuditLog(nil), f.entries...), int64(len(f.entries)), nil
}

func newTestAudit() *AuditService {
	return NewAuditService(&fakeAuditRepo{})
}

type fakeTaxRepo struct {
	brackets     map[string][]model.TaxBracket
	declarations map[string]*model.TaxDeclaration
}

func newFakeTaxRepo() *fakeTaxRepo {
	return &fakeTaxRepo{
		brackets:     map[string][]model.TaxBracket{},
		declarations: map[string]*model.TaxDeclaration{},
	}
}

func (f *fakeTaxRepo) ListBrackets(bracketType string) ([]model.TaxBracket, error) {
	return f.brackets[bracketType], nil
}

func (f *fakeTaxRepo) AddBracket(b *model.TaxBracket) error {
	f.brackets[b.BracketType] = append(f.brackets[b.BracketType], *b)
	return nil
}

func (f *fakeTaxRepo) UpdateBracket(bracketId string, b *model.TaxBracket) error { return nil }

func (f *fakeTaxRepo) DeleteBracket(bracketId string) error { return nil }

func (f *fakeTaxRepo) CountBrackets() (int64, error) {
	var total int64
	for _, bs := range f.brackets {
		total += int64(len(bs))
	}
	return total, nil
}

func (f *fakeTaxRepo) SeedBrackets(brackets []model.TaxBracket) error {
	for _, b := range brackets {
		f.brackets[b.BracketType] = append(f.brackets[b.BracketType], b)
	}
	return nil
}

func (f *fakeTaxRepo) CreateDeclaration(d *model.TaxDeclaration) error {
	f.declarations[d.DeclarationId] = d
	return nil
}

func (f *fakeTaxRepo) GetDeclaration(declarationId string) (*model.TaxDeclaration, error) {
	d, ok := f.declarations[declarationId]
	if !ok {
		return nil, errNotFound
	}
	return d, nil
}

func (f *fakeTaxRepo) ListDeclarations(enterpriseId, status string, offset, pageSize int) ([]model.TaxDeclaration, int64, error) {
	var out []model.TaxDeclaration
	for _, d := range f.declarations {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeTaxRepo) UpdateDeclarationStatus(declarationId, status string) error {
	d, ok := f.declarations[declarationId]
	if !ok {
		return errNotFound
	}
	d.Status = status
	return nil
}

type fakeDotationRepo struct {
	reports map[string]*model.DotationReport
	rows    map[string][]model.DotationRow
}

func newFakeDotationRepo() *fakeDotationRepo {
	return &fakeDotationRepo{
		reports: map[string]*model.DotationReport{},
		rows:    map[string][]model.DotationRow{},
	}
}

func (f *fakeDotationRepo) recompute(reportId string) {
	report := f.reports[reportId]
	report.TotalRevenue, report.TotalSalaries, report.TotalBonuses = 0, 0, 0
	report.EmployeeCount = len(f.rows[reportId])
	for _, row := range f.rows[reportId] {
		report.TotalRevenue += row.TotalRevenue
		report.TotalSalaries += row.Salary
		report.TotalBonuses += row.Bonus
	}
}

func (f *fakeDotationRepo) CreateReport(report *model.DotationReport, rows []model.DotationRow) error {
	f.reports[report.ReportId] = report
	f.rows[report.ReportId] = rows
	f.recompute(report.ReportId)
	return nil
}

func (f *fakeDotationRepo) GetReport(reportId string) (*model.DotationReport, error) {
	report, ok := f.reports[reportId]
	if !ok {
		return nil, errNotFound
	}
	return report, nil
}

func (f *fakeDotationRepo) GetRows(reportId string) ([]model.DotationRow, error) {
	return f.rows[reportId], nil
}

func (f *fakeDotationRepo) ListReports(enterpriseId, status, period string, offset, pageSize int) ([]model.DotationReport, int64, error) {
	var out []model.DotationReport
	for _, r := range f.reports {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDotationRepo) UpdateReport(reportId string, fields map[string]any) error {
	existing, ok := f.reports[reportId]
	if !ok {
		return errNotFound
	}
	if v, ok := fields["title"]; ok {
		existing.Title = v.(string)
	}
	if v, ok := fields["period"]; ok {
		existing.Period = v.(string)
	}
	if v, ok := fields["status"]; ok {
		existing.Status = v.(string)
	}
	if v, ok := fields["notes"]; ok {
		existing.Notes = v.(string)
	}
	return nil
}

func (f *fakeDotationRepo) DeleteReport(reportId string) error {
	delete(f.reports, reportId)
	delete(f.rows, reportId)
	return nil
}

func (f *fakeDotationRepo) AddRows(reportId string, rows []model.DotationRow) error {
	f.rows[reportId] = append(f.rows[reportId], rows...)
	f.recompute(reportId)
	return nil
}

func (f *fakeDotationRepo) UpdateRow(rowId string, row *model.DotationRow) error {
	for reportId, rows := range f.rows {
		for i := range rows {
			if rows[i].RowId == rowId {
				row.RowId = rowId
				rows[i] = *row
				f.recompute(reportId)
				return nil
			}
		}
	}
	return errNotFound
}

func (f *fakeDotationRepo) DeleteRow(reportId, rowId string) error {
	rows := f.rows[reportId]
	for i := range rows {
		if rows[i].RowId == rowId {
			f.rows[reportId] = append(rows[:i], rows[i+1:]...)
			f.recompute(reportId)
			return nil
		}
	}
	return errNotFound
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (f *fakeUserRepo) GetByDiscordId(discordId string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.DiscordId == discordId {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUserId(userId string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userId]
	if !ok {
		return nil, errNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) AddUser(u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *u
	f.users[u.UserId] = &copied
	return nil
}

func (f *fakeUserRepo) UpdateUser(userId string, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.users[userId]
	if !ok {
		return errNotFound
	}
	existing.Username = u.Username
	existing.Email = u.Email
	existing.AvatarUrl = u.AvatarUrl
	if u.Role != "" {
		existing.Role = u.Role
	}
	if u.EnterpriseId != "" {
		existing.EnterpriseId = u.EnterpriseId
	}
	existing.LastLogin = u.LastLogin
	return nil
}

func (f *fakeUserRepo) UpdateRole(userId, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userId]
	if !ok {
		return errNotFound
	}
	u.Role = role
	return nil
}

func (f *fakeUserRepo) FetchUserInfo(userId string) (*model.UserInfo, error) {
	u, err := f.GetByUserId(userId)
	if err != nil {
		return nil, err
	}
	info := u.Info()
	return &info, nil
}

func (f *fakeUserRepo) GetUserList(enterpriseId string, offset, pageSize int) ([]model.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.users {
		if enterpriseId == "" || u.EnterpriseId == enterpriseId {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

type fakeEnterpriseRepo struct {
	enterprises map[string]*model.Enterprise
}

func newFakeEnterpriseRepo() *fakeEnterpriseRepo {
	return &fakeEnterpriseRepo{enterprises: map[string]*model.Enterprise{}}
}

func (f *fakeEnterpriseRepo) Add(e *model.Enterprise) error {
	f.enterprises[e.EnterpriseId] = e
	return nil
}

func (f *fakeEnterpriseRepo) Update(enterpriseId string, e *model.Enterprise) error {
	existing, ok := f.enterprises[enterpriseId]
	if !ok {
		return errNotFound
	}
	if e.Name != "" {
		existing.Name = e.Name
	}
	return nil
}

func (f *fakeEnterpriseRepo) GetByEnterpriseId(enterpriseId string) (*model.Enterprise, error) {
	e, ok := f.enterprises[enterpriseId]
	if !ok {
		return nil, errNotFound
	}
	return e, nil
}

func (f *fakeEnterpriseRepo) GetByGuildId(guildId string) (*model.Enterprise, error) {
	for _, e := range f.enterprises {
		if e.DiscordGuildId == guildId && e.IsActive {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEnterpriseRepo) FindFirstByGuildIds(guildIds []string) (*model.Enterprise, error) {
	for _, guildId := range guildIds {
		e, err := f.GetByGuildId(guildId)
		if err != nil {
			return nil, err
		}
		if e != nil {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEnterpriseRepo) List(offset, pageSize int) ([]model.Enterprise, int64, error) {
	var out []model.Enterprise
	for _, e := range f.enterprises {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

type fakeBlanchimentRepo struct {
	settings   map[string]*model.BlanchimentSetting
	operations map[string]*model.BlanchimentOperation
}

func newFakeBlanchimentRepo() *fakeBlanchimentRepo {
	return &fakeBlanchimentRepo{
		settings:   map[string]*model.BlanchimentSetting{},
		operations: map[string]*model.BlanchimentOperation{},
	}
}

func (f *fakeBlanchimentRepo) GetSetting(enterpriseId string) (*model.BlanchimentSetting, error) {
	s, ok := f.settings[enterpriseId]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeBlanchimentRepo) SaveSetting(s *model.BlanchimentSetting) error {
	copied := *s
	if copied.ID == 0 {
		copied.ID = uint64(len(f.settings) + 1)
	}
	f.settings[s.EnterpriseId] = &copied
	return nil
}

func (f *fakeBlanchimentRepo) CreateOperation(op *model.BlanchimentOperation) error {
	f.operations[op.OperationId] = op
	return nil
}

func (f *fakeBlanchimentRepo) GetOperation(operationId string) (*model.BlanchimentOperation, error) {
	op, ok := f.operations[operationId]
	if !ok {
		return nil, errNotFound
	}
	return op, nil
}

func (f *fakeBlanchimentRepo) ListOperations(enterpriseId, status string, offset, pageSize int) ([]model.BlanchimentOperation, int64, error) {
	var out []model.BlanchimentOperation
	for _, op := range f.operations {
		if status != "" && op.Status != status {
			continue
		}
		out = append(out, *op)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBlanchimentRepo) UpdateOperation(operationId string, op *model.BlanchimentOperation) error {
	if _, ok := f.operations[operationId]; !ok {
		return errNotFound
	}
	op.OperationId = operationId
	f.operations[operationId] = op
	return nil
}

func (f *fakeBlanchimentRepo) DeleteOperation(operationId string) error {
	delete(f.operations, operationId)
	return nil
}
