package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nutrition-program-api/internal/application/dto"
	"github.com/jhoicas/nutrition-program-api/internal/domain"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/nutrition-program-api/pkg/jwt"
)

const routerSecret = "router-test-secret"

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de servicios
// ──────────────────────────────────────────────────────────────────────────────

type fakeAuth struct {
	loginErr   error
	createErr  error
	lastCaller entity.Identity
	lastActive *bool
}

func (f *fakeAuth) Login(_ context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &dto.LoginResponse{Token: "tok", User: dto.UserResponse{Email: in.Email, Role: entity.RoleDEO}}, nil
}

func (f *fakeAuth) CreateUser(_ context.Context, caller entity.Identity, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	f.lastCaller = caller
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &dto.UserResponse{ID: "u-1", Email: in.Email, Role: in.Role, Active: true}, nil
}

func (f *fakeAuth) SetActive(_ context.Context, _ entity.Identity, userID string, active bool) (*dto.UserResponse, error) {
	f.lastActive = &active
	return &dto.UserResponse{ID: userID, Active: active}, nil
}

func (f *fakeAuth) Me(_ context.Context, caller entity.Identity) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: caller.UserID, Role: caller.Role}, nil
}

type fakeRegistry struct {
	err        error
	lastNIC    string
	lastCalled string
}

func (f *fakeRegistry) Create(_ context.Context, _ entity.Identity, in dto.ContractorRequest) (*dto.ContractorResponse, error) {
	f.lastCalled = "create"
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ContractorResponse{ID: "c-1", NICNumber: in.NICNumber, Active: bool(in.Active)}, nil
}

func (f *fakeRegistry) Update(_ context.Context, _ entity.Identity, nic string, _ dto.ContractorRequest) (*dto.ContractorResponse, error) {
	f.lastCalled, f.lastNIC = "update", nic
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ContractorResponse{NICNumber: nic}, nil
}

func (f *fakeRegistry) Delete(_ context.Context, _ entity.Identity, nic string) error {
	f.lastCalled, f.lastNIC = "delete", nic
	return f.err
}

func (f *fakeRegistry) List(_ context.Context, _ entity.Identity) ([]*dto.ContractorResponse, error) {
	f.lastCalled = "list"
	return []*dto.ContractorResponse{{NICNumber: "111V"}, {NICNumber: "222V"}}, f.err
}

func (f *fakeRegistry) GetByNIC(_ context.Context, _ entity.Identity, nic string) (*dto.ContractorResponse, error) {
	f.lastCalled, f.lastNIC = "get", nic
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ContractorResponse{NICNumber: nic}, nil
}

func (f *fakeRegistry) GetActive(_ context.Context, _ entity.Identity) (*dto.ContractorResponse, error) {
	f.lastCalled = "active"
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ContractorResponse{NICNumber: "111V", Active: true}, nil
}

type fakeWorkflow struct {
	err        error
	lastFilter entity.VoucherFilter
	lastVerify dto.VerifyVoucherRequest
}

func (f *fakeWorkflow) Create(_ context.Context, caller entity.Identity, _ dto.CreateVoucherRequest) (*dto.VoucherResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.VoucherResponse{ID: "v-1", DEOID: caller.UserID, Status: entity.VoucherStatusPending}, nil
}

func (f *fakeWorkflow) List(_ context.Context, _ entity.Identity, filter entity.VoucherFilter) ([]*dto.VoucherResponse, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return []*dto.VoucherResponse{}, nil
}

func (f *fakeWorkflow) Get(_ context.Context, _ entity.Identity, id string) (*dto.VoucherResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.VoucherResponse{ID: id}, nil
}

func (f *fakeWorkflow) Verify(_ context.Context, _ entity.Identity, id string, in dto.VerifyVoucherRequest) (*dto.VoucherResponse, error) {
	f.lastVerify = in
	if f.err != nil {
		return nil, f.err
	}
	return &dto.VoucherResponse{ID: id, Status: in.Status}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type testDeps struct {
	auth     *fakeAuth
	registry *fakeRegistry
	workflow *fakeWorkflow
}

func newTestRouter() (*fiber.App, *testDeps) {
	deps := &testDeps{auth: &fakeAuth{}, registry: &fakeRegistry{}, workflow: &fakeWorkflow{}}
	app := fiber.New()
	routes(app, routerSecret, nil, deps.auth, deps.registry, deps.workflow)
	return app, deps
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(routerSecret, "user-"+role, role, "test", 60)
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(t *testing.T, app *fiber.App, method, path, role, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", bearer(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// ──────────────────────────────────────────────────────────────────────────────
// Health y auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_Health(t *testing.T) {
	app, _ := newTestRouter()
	status, body := call(t, app, http.MethodGet, "/health", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestLogin_OK(t *testing.T) {
	app, _ := newTestRouter()
	status, body := call(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"deo@example.com","password":"secreto123"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "tok", data["token"])
}

func TestLogin_EmailInvalido(t *testing.T) {
	app, _ := newTestRouter()
	status, body := call(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"no-es-email","password":"x"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.NotEmpty(t, body["errors"])
}

func TestLogin_CuerpoMalformado(t *testing.T) {
	app, _ := newTestRouter()
	status, body := call(t, app, http.MethodPost, "/api/auth/login", "", `{"email":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	app, deps := newTestRouter()
	deps.auth.loginErr = domain.ErrUnauthorized
	status, body := call(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"deo@example.com","password":"mala"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	app, deps := newTestRouter()
	deps.auth.loginErr = domain.ErrInactiveUser
	status, body := call(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"deo@example.com","password":"secreto123"}`)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "INACTIVE_USER", body["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Users
// ──────────────────────────────────────────────────────────────────────────────

func TestUsers_CrearSoloAdmin(t *testing.T) {
	app, deps := newTestRouter()
	payload := `{"email":"vo@example.com","password":"secreto123","role":"vo","designation":"Inspector"}`

	status, _ := call(t, app, http.MethodPost, "/api/users", entity.RoleDEO, payload)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := call(t, app, http.MethodPost, "/api/users", entity.RoleAdmin, payload)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "vo", body["data"].(map[string]interface{})["role"])
	assert.Equal(t, entity.RoleAdmin, deps.auth.lastCaller.Role)
}

func TestUsers_CrearRolInvalido(t *testing.T) {
	app, _ := newTestRouter()
	status, body := call(t, app, http.MethodPost, "/api/users", entity.RoleAdmin,
		`{"email":"x@example.com","password":"secreto123","role":"root"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestUsers_EmailDuplicado(t *testing.T) {
	app, deps := newTestRouter()
	deps.auth.createErr = domain.ErrEmailAlreadyExists
	status, body := call(t, app, http.MethodPost, "/api/users", entity.RoleAdmin,
		`{"email":"x@example.com","password":"secreto123","role":"deo"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "DUPLICATE", body["code"])
}

func TestUsers_SetStatusRequiereActive(t *testing.T) {
	app, deps := newTestRouter()
	status, body := call(t, app, http.MethodPatch, "/api/users/u-1/status", entity.RoleAdmin, `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	status, _ = call(t, app, http.MethodPatch, "/api/users/u-1/status", entity.RoleAdmin, `{"active":false}`)
	assert.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, deps.auth.lastActive)
	assert.False(t, *deps.auth.lastActive)
}

func TestUsers_Me(t *testing.T) {
	app, _ := newTestRouter()
	status, body := call(t, app, http.MethodGet, "/api/users/me", entity.RoleVO, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, entity.RoleVO, body["data"].(map[string]interface{})["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Contractors
// ──────────────────────────────────────────────────────────────────────────────

func TestContractors_SoloDEO(t *testing.T) {
	app, _ := newTestRouter()
	status, _ := call(t, app, http.MethodGet, "/api/contractors", entity.RoleVO, "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = call(t, app, http.MethodGet, "/api/contractors", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestContractors_ListaConSobre(t *testing.T) {
	app, _ := newTestRouter()
	status, body := call(t, app, http.MethodGet, "/api/contractors", entity.RoleDEO, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 2)
}

func TestContractors_ActiveNoEsNIC(t *testing.T) {
	app, deps := newTestRouter()
	status, _ := call(t, app, http.MethodGet, "/api/contractors/active", entity.RoleDEO, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "active", deps.registry.lastCalled)

	status, _ = call(t, app, http.MethodGet, "/api/contractors/111V", entity.RoleDEO, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "get", deps.registry.lastCalled)
	assert.Equal(t, "111V", deps.registry.lastNIC)
}

func TestContractors_SinActivo404(t *testing.T) {
	app, deps := newTestRouter()
	deps.registry.err = domain.ErrNotFound
	status, body := call(t, app, http.MethodGet, "/api/contractors/active", entity.RoleDEO, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestContractors_CrearAceptaYesNo(t *testing.T) {
	app, _ := newTestRouter()
	status, body := call(t, app, http.MethodPost, "/api/contractors", entity.RoleDEO,
		`{"nic_number":"111V","full_name":"Ana","active":"yes","has_supporter":"no"}`)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, true, body["data"].(map[string]interface{})["active"])
}

func TestContractors_ConflictoExclusividadConPayload(t *testing.T) {
	app, deps := newTestRouter()
	deps.registry.err = &domain.ExclusivityConflictError{
		Active: domain.ContractorRef{ID: "c-0", NICNumber: "000V", FullName: "Activo"},
	}
	status, body := call(t, app, http.MethodPost, "/api/contractors", entity.RoleDEO,
		`{"nic_number":"111V","full_name":"Ana","active":true}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "ACTIVE_CONTRACTOR_EXISTS", body["code"])
	active := body["activeContractor"].(map[string]interface{})
	assert.Equal(t, "000V", active["nic_number"])
}

func TestContractors_Duplicado(t *testing.T) {
	app, deps := newTestRouter()
	deps.registry.err = domain.ErrDuplicate
	status, body := call(t, app, http.MethodPost, "/api/contractors", entity.RoleDEO, `{"nic_number":"111V"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "DUPLICATE", body["code"])
}

func TestContractors_ValidacionConProblemas(t *testing.T) {
	app, deps := newTestRouter()
	deps.registry.err = &domain.ValidationError{Problems: []string{"full_name es requerido", "supporter.nic_number es requerido"}}
	status, body := call(t, app, http.MethodPost, "/api/contractors", entity.RoleDEO, `{"nic_number":"111V"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Len(t, body["errors"], 2)
}

func TestContractors_UpdateYDeleteUsanNICDeRuta(t *testing.T) {
	app, deps := newTestRouter()
	status, _ := call(t, app, http.MethodPut, "/api/contractors/222V", entity.RoleDEO, `{"nic_number":"999V","full_name":"B"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "222V", deps.registry.lastNIC)

	status, body := call(t, app, http.MethodDelete, "/api/contractors/222V", entity.RoleDEO, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "delete", deps.registry.lastCalled)
	assert.Equal(t, true, body["success"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Vouchers
// ──────────────────────────────────────────────────────────────────────────────

func TestVouchers_CrearSoloDEO(t *testing.T) {
	app, _ := newTestRouter()
	payload := `{"url_data":{"downloadURL":"https://files.example.com/v.pdf"}}`

	status, _ := call(t, app, http.MethodPost, "/api/vouchers", entity.RoleVO, payload)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := call(t, app, http.MethodPost, "/api/vouchers", entity.RoleDEO, payload)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "pending", body["data"].(map[string]interface{})["status"])
}

func TestVouchers_SinVOActivo(t *testing.T) {
	app, deps := newTestRouter()
	deps.workflow.err = domain.ErrPreconditionFailed
	status, body := call(t, app, http.MethodPost, "/api/vouchers", entity.RoleDEO, `{"url_data":"https://x"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "NO_ACTIVE_VO", body["code"])
}

func TestVouchers_ListaConFiltro(t *testing.T) {
	app, deps := newTestRouter()
	status, body := call(t, app, http.MethodGet, "/api/vouchers?year=2024&month=3", entity.RoleVO, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []interface{}{}, body["data"])
	require.NotNil(t, deps.workflow.lastFilter.Year)
	require.NotNil(t, deps.workflow.lastFilter.Month)
	assert.Equal(t, 2024, *deps.workflow.lastFilter.Year)
	assert.Equal(t, 3, *deps.workflow.lastFilter.Month)

	status, _ = call(t, app, http.MethodGet, "/api/vouchers", entity.RoleDEO, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Nil(t, deps.workflow.lastFilter.Year)
	assert.Nil(t, deps.workflow.lastFilter.Month)
}

func TestVouchers_FiltroNoNumerico(t *testing.T) {
	app, _ := newTestRouter()
	status, body := call(t, app, http.MethodGet, "/api/vouchers?year=abc", entity.RoleDEO, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestVouchers_AdminNoAccede(t *testing.T) {
	app, _ := newTestRouter()
	status, _ := call(t, app, http.MethodGet, "/api/vouchers", entity.RoleAdmin, "")
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestVouchers_GetAjeno403(t *testing.T) {
	app, deps := newTestRouter()
	deps.workflow.err = domain.ErrForbidden
	status, body := call(t, app, http.MethodGet, "/api/vouchers/v-1", entity.RoleVO, "")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])
}

func TestVouchers_VerifySoloVO(t *testing.T) {
	app, deps := newTestRouter()
	payload := `{"status":"approved","comment":"ok"}`

	status, _ := call(t, app, http.MethodPut, "/api/vouchers/v-1/verify", entity.RoleDEO, payload)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := call(t, app, http.MethodPut, "/api/vouchers/v-1/verify", entity.RoleVO, payload)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "approved", body["data"].(map[string]interface{})["status"])
	require.NotNil(t, deps.workflow.lastVerify.Comment)
	assert.Equal(t, "ok", *deps.workflow.lastVerify.Comment)
}

func TestVouchers_VerifyYaDecidido409(t *testing.T) {
	app, deps := newTestRouter()
	deps.workflow.err = domain.ErrConflict
	status, body := call(t, app, http.MethodPut, "/api/vouchers/v-1/verify", entity.RoleVO, `{"status":"rejected"}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "ALREADY_DECIDED", body["code"])
}

func TestVouchers_ErrorInternoNoFiltraDetalle(t *testing.T) {
	app, deps := newTestRouter()
	deps.workflow.err = assert.AnError
	status, body := call(t, app, http.MethodGet, "/api/vouchers/v-1", entity.RoleDEO, "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body["code"])
	assert.Equal(t, "error interno del servidor", body["message"])
}

func TestContractors_ConflictoSinGanadorOmitePayload(t *testing.T) {
	app, deps := newTestRouter()
	deps.registry.err = &domain.ExclusivityConflictError{}
	status, body := call(t, app, http.MethodPost, "/api/contractors", entity.RoleDEO,
		`{"nic_number":"111V","full_name":"Ana","active":true}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "ACTIVE_CONTRACTOR_EXISTS", body["code"])
	_, present := body["activeContractor"]
	assert.False(t, present)
}
