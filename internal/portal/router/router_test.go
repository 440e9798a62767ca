package router

import (
	"bytes"
	"io"
	stdhttp "net/http"
	"os"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/internal/portal/service"
	httpx "github.com/go-portal/portal/pkg/http"
	"github.com/go-portal/portal/pkg/http/jwt"
	"github.com/go-portal/portal/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "router-test-secret"

func TestMain(m *testing.M) {
	log.MustInit(log.SetDefaults())
	os.Exit(m.Run())
}

type stubAuditRepo struct{}

func (stubAuditRepo) Add(entry *model.AuditLog) error { return nil }
func (stubAuditRepo) List(q model.AuditQuery) ([]model.AuditLog, int64, error) {
	return nil, 0, nil
}

type stubTaxRepo struct {
	brackets []model.TaxBracket
}

func (s *stubTaxRepo) ListBrackets(bracketType string) ([]model.TaxBracket, error) {
	var out []model.TaxBracket
	for _, b := range s.brackets {
		if b.BracketType == bracketType {
			out = append(out, b)
		}
	}
	return out, nil
}
func (s *stubTaxRepo) AddBracket(b *model.TaxBracket) error                  { return nil }
func (s *stubTaxRepo) UpdateBracket(id string, b *model.TaxBracket) error    { return nil }
func (s *stubTaxRepo) DeleteBracket(id string) error                         { return nil }
func (s *stubTaxRepo) CountBrackets() (int64, error)                         { return int64(len(s.brackets)), nil }
func (s *stubTaxRepo) SeedBrackets(brackets []model.TaxBracket) error        { return nil }
func (s *stubTaxRepo) CreateDeclaration(d *model.TaxDeclaration) error       { return nil }
func (s *stubTaxRepo) GetDeclaration(id string) (*model.TaxDeclaration, error) {
	return nil, assert.AnError
}
func (s *stubTaxRepo) ListDeclarations(enterpriseId, status string, offset, pageSize int) ([]model.TaxDeclaration, int64, error) {
	return nil, 0, nil
}
func (s *stubTaxRepo) UpdateDeclarationStatus(id, status string) error { return nil }

// stubUserRepo holds one active user per role, keyed "u-<role>", plus a
// deactivated staff user "u-inactive".
type stubUserRepo struct {
	users map[string]*model.User
}

func newStubUserRepo() *stubUserRepo {
	roles := []string{model.RoleEmployee, model.RoleDot, model.RoleCoPatron, model.RolePatron, model.RoleStaff}
	users := make(map[string]*model.User, len(roles)+1)
	for _, role := range roles {
		users["u-"+role] = &model.User{UserId: "u-" + role, Role: role, IsActive: true}
	}
	users["u-inactive"] = &model.User{UserId: "u-inactive", Role: model.RoleStaff, IsActive: false}
	return &stubUserRepo{users: users}
}

func (s *stubUserRepo) GetByDiscordId(discordId string) (*model.User, error) { return nil, nil }
func (s *stubUserRepo) GetByUserId(userId string) (*model.User, error) {
	u, ok := s.users[userId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}
func (s *stubUserRepo) AddUser(u *model.User) error                   { s.users[u.UserId] = u; return nil }
func (s *stubUserRepo) UpdateUser(userId string, u *model.User) error { return nil }
func (s *stubUserRepo) UpdateRole(userId, role string) error {
	u, err := s.GetByUserId(userId)
	if err != nil {
		return err
	}
	u.Role = role
	return nil
}
func (s *stubUserRepo) FetchUserInfo(userId string) (*model.UserInfo, error) {
	u, err := s.GetByUserId(userId)
	if err != nil {
		return nil, err
	}
	info := u.Info()
	return &info, nil
}
func (s *stubUserRepo) GetUserList(enterpriseId string, offset, pageSize int) ([]model.User, int64, error) {
	return nil, 0, nil
}

func newTestRouter() *Router {
	audit := service.NewAuditService(stubAuditRepo{})
	taxService := service.NewTaxService(&stubTaxRepo{brackets: service.DefaultBrackets()}, audit)

	httpConf := &httpx.Http{
		ContextPath: "/api",
		Auth:        httpx.Auth{SecretKey: testSecret},
	}
	authService := service.NewAuthService(newStubUserRepo(), nil, nil, httpConf.Auth, audit)
	return NewRouter(httpConf, authService, nil, taxService, nil, nil, audit)
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	aToken, _, err := jwt.GenToken("u-"+role, role, []byte(testSecret), 0, 0)
	require.NoError(t, err)
	return "Bearer " + aToken
}

func decodeBody(t *testing.T, resp *stdhttp.Response, out any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, sonic.Unmarshal(body, out))
}

func TestHealth(t *testing.T) {
	app := newTestRouter().Router()

	req, _ := stdhttp.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, stdhttp.StatusOK, resp.StatusCode)
}

func TestRoutesRequireToken(t *testing.T) {
	app := newTestRouter().Router()

	req, _ := stdhttp.NewRequest("GET", "/api/tax/brackets", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var envelope httpx.ResponseErr
	decodeBody(t, resp, &envelope)
	assert.Equal(t, httpx.TokenBeEmpty.Code, envelope.ErrCode)
}

func TestCalculateTax(t *testing.T) {
	app := newTestRouter().Router()

	payload, _ := sonic.Marshal(model.CalculateTaxReq{
		TaxableIncome: 60000,
		Allowances:    10000,
		Wealth:        20000,
	})
	req, _ := stdhttp.NewRequest("POST", "/api/tax/calculate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, model.RoleEmployee))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)

	var envelope struct {
		Code   int                          `json:"code"`
		Detail model.DeclarationComputation `json:"detail"`
	}
	decodeBody(t, resp, &envelope)
	assert.Equal(t, httpx.Success.Code, envelope.Code)
	assert.InDelta(t, 5000, envelope.Detail.Income.Tax, 0.001)
	assert.InDelta(t, 6000, envelope.Detail.TotalTax, 0.001)
}

func TestBracketMutationNeedsStaff(t *testing.T) {
	app := newTestRouter().Router()

	payload, _ := sonic.Marshal(model.AddBracketReq{
		BracketType: model.BracketIncome,
		MinAmount:   0,
		TaxRate:     0.1,
	})
	req, _ := stdhttp.NewRequest("POST", "/api/tax/brackets", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, model.RoleEmployee))

	resp, err := app.Test(req)
	require.NoError(t, err)

	var envelope httpx.ResponseErr
	decodeBody(t, resp, &envelope)
	assert.Equal(t, httpx.PermissionDenied.Code, envelope.ErrCode)
}

// A token minted while the user was staff must not grant staff access
// once the stored role says employee.
func TestDemotedUserLosesStaffAccess(t *testing.T) {
	app := newTestRouter().Router()

	aToken, _, err := jwt.GenToken("u-"+model.RoleEmployee, model.RoleStaff, []byte(testSecret), 0, 0)
	require.NoError(t, err)

	payload, _ := sonic.Marshal(model.AddBracketReq{
		BracketType: model.BracketIncome,
		MinAmount:   0,
		TaxRate:     0.1,
	})
	req, _ := stdhttp.NewRequest("POST", "/api/tax/brackets", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+aToken)

	resp, err := app.Test(req)
	require.NoError(t, err)

	var envelope httpx.ResponseErr
	decodeBody(t, resp, &envelope)
	assert.Equal(t, httpx.PermissionDenied.Code, envelope.ErrCode)
}

func TestDeactivatedUserRejected(t *testing.T) {
	app := newTestRouter().Router()

	aToken, _, err := jwt.GenToken("u-inactive", model.RoleStaff, []byte(testSecret), 0, 0)
	require.NoError(t, err)

	req, _ := stdhttp.NewRequest("GET", "/api/tax/brackets", nil)
	req.Header.Set("Authorization", "Bearer "+aToken)

	resp, err := app.Test(req)
	require.NoError(t, err)

	var envelope httpx.ResponseErr
	decodeBody(t, resp, &envelope)
	assert.Equal(t, httpx.Unauthorized.Code, envelope.ErrCode)
}

func TestValidationErrorsMapTo400(t *testing.T) {
	app := newTestRouter().Router()

	req, _ := stdhttp.NewRequest("PUT", "/api/tax/declarations/d1/status",
		bytes.NewReader([]byte(`{"status":"bogus"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, model.RoleStaff))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)

	var envelope httpx.ResponseErr
	decodeBody(t, resp, &envelope)
	assert.Equal(t, httpx.BadRequest.Code, envelope.ErrCode)
}
