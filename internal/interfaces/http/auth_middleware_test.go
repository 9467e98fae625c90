package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	apphttp "github.com/jhoicas/clinic-inventory-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/clinic-inventory-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "clinic-inventory-test"
)

type lookupStub map[string]entity.User

func (l lookupStub) GetByID(id string) (*entity.User, error) {
	u, ok := l[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func bearer(t *testing.T, userID, role, branchID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, role, branchID, testIssuer, 5)
	require.NoError(t, err)
	return "Bearer " + tok
}

// whoami responde con el usuario que ven los handlers.
func whoami(c *fiber.Ctx) error {
	u := apphttp.GetUser(c)
	return c.JSON(fiber.Map{"id": u.ID, "role": u.Role, "branch_id": u.BranchID})
}

func call(t *testing.T, app *fiber.App, auth string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]string{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	app := fiber.New()
	app.Get("/x", apphttp.AuthMiddleware(testJWTSecret), whoami)

	otherSecret, err := pkgjwt.Generate("otro-secreto", "u1", entity.RoleAdmin, "", testIssuer, 5)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Token abc", "INVALID_TOKEN"},
		{"token basura", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"firmado con otro secreto", "Bearer " + otherSecret, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := call(t, app, tc.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestAuthMiddleware_ClaimsSinLoadUser(t *testing.T) {
	app := fiber.New()
	app.Get("/x", apphttp.AuthMiddleware(testJWTSecret), whoami)

	status, body := call(t, app, bearer(t, "staff-9", entity.RoleStaff, "branch-2"))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "staff-9", body["id"])
	assert.Equal(t, entity.RoleStaff, body["role"])
	assert.Equal(t, "branch-2", body["branch_id"])
}

func TestLoadUser_DatosVigentesPrevalecen(t *testing.T) {
	users := lookupStub{
		"u1": {ID: "u1", Username: "ana", Role: entity.RoleStaff, BranchID: "branch-3"},
	}
	app := fiber.New()
	app.Get("/x", apphttp.AuthMiddleware(testJWTSecret), apphttp.LoadUser(users), whoami)

	// el token dice Admin; el catálogo dice Staff en branch-3
	status, body := call(t, app, bearer(t, "u1", entity.RoleAdmin, ""))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, entity.RoleStaff, body["role"])
	assert.Equal(t, "branch-3", body["branch_id"])

	status, body = call(t, app, bearer(t, "borrado", entity.RoleAdmin, ""))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNKNOWN_USER", body["code"])
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		role    string
		status  int
		code    string
	}{
		{"admin en ruta admin", []string{entity.RoleAdmin}, entity.RoleAdmin, http.StatusOK, ""},
		{"staff en ruta compartida", []string{entity.RoleAdmin, entity.RoleStaff}, entity.RoleStaff, http.StatusOK, ""},
		{"staff en ruta admin", []string{entity.RoleAdmin}, entity.RoleStaff, http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{entity.RoleAdmin}, "", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/x", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireRole(tc.allowed...), whoami)

			status, body := call(t, app, bearer(t, "u1", tc.role, ""))
			assert.Equal(t, tc.status, status)
			if tc.code != "" {
				assert.Equal(t, tc.code, body["code"])
			}
		})
	}
}
