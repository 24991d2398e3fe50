package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/farmacia-pro/internal/application/auth"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	apphttp "github.com/tu-usuario/farmacia-pro/internal/interfaces/http"
)

// cuentasRepo repo de empleados en memoria para probar el alta de cuentas.
type cuentasRepo struct {
	byID    map[string]*entity.Employee
	byEmail map[string]*entity.Employee
}

func newCuentasRepo() *cuentasRepo {
	return &cuentasRepo{
		byID:    make(map[string]*entity.Employee),
		byEmail: make(map[string]*entity.Employee),
	}
}

func (r *cuentasRepo) Create(e *entity.Employee) error {
	if _, ok := r.byEmail[e.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	cp := *e
	r.byID[e.ID] = &cp
	r.byEmail[e.Email] = &cp
	return nil
}

func (r *cuentasRepo) GetByID(id string) (*entity.Employee, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *cuentasRepo) FindByEmail(email string) (*entity.Employee, error) {
	e, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *cuentasRepo) Update(e *entity.Employee) error {
	cp := *e
	r.byID[e.ID] = &cp
	r.byEmail[e.Email] = &cp
	return nil
}

func (r *cuentasRepo) List(_, _ int) ([]*entity.Employee, error) {
	var out []*entity.Employee
	for _, e := range r.byID {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (r *cuentasRepo) Delete(id string) error {
	if e, ok := r.byID[id]; ok {
		delete(r.byEmail, e.Email)
		delete(r.byID, id)
	}
	return nil
}

// buildCuentasApp monta las rutas de registro y administración de cuentas
// con los mismos middlewares que el router real.
func buildCuentasApp(repo *cuentasRepo) *fiber.App {
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     testJWTSecret,
		ExpMinutes: testExpMin,
		Issuer:     testIssuer,
	})
	app := fiber.New()
	app.Post("/api/auth/register", apphttp.NewAuthHandler(uc).Register)
	employees := app.Group("/api/employees",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(entity.RoleAdmin),
	)
	employees.Post("/", apphttp.NewEmployeeHandler(uc).Create)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, authHeader string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Con la base vacía el registro es público: así se crea el primer admin.
func TestRegister_PrimeraCuentaEsPublica(t *testing.T) {
	repo := newCuentasRepo()
	app := buildCuentasApp(repo)

	resp := postJSON(t, app, "/api/auth/register", "", fiber.Map{
		"email":    "admin@farmacia.com",
		"password": "contrasena-segura",
		"name":     "Admin Inicial",
		"role":     entity.RoleAdmin,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, entity.RoleAdmin, out["role"])
	assert.Len(t, repo.byID, 1)
}

// Existiendo al menos una cuenta, el registro anónimo queda cerrado:
// nadie puede fabricarse un admin contra la ruta pública.
func TestRegister_ConCuentasExistentesQuedaCerrado(t *testing.T) {
	repo := newCuentasRepo()
	require.NoError(t, repo.Create(&entity.Employee{
		ID: "emp-1", Email: "dueno@farmacia.com", Role: entity.RoleAdmin, Status: "active",
	}))
	app := buildCuentasApp(repo)

	resp := postJSON(t, app, "/api/auth/register", "", fiber.Map{
		"email":    "intruso@example.com",
		"password": "cualquiercosa",
		"role":     entity.RoleAdmin,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
	assert.Len(t, repo.byID, 1, "no debe crearse ninguna cuenta")
}

func TestEmployeesCreate_AdminCreaCuentas(t *testing.T) {
	repo := newCuentasRepo()
	require.NoError(t, repo.Create(&entity.Employee{
		ID: testEmployeeID, Email: "dueno@farmacia.com", Role: entity.RoleAdmin, Status: "active",
	}))
	app := buildCuentasApp(repo)

	resp := postJSON(t, app, "/api/employees/", tokenForRole(t, entity.RoleAdmin), fiber.Map{
		"email":    "cajero@farmacia.com",
		"password": "contrasena-segura",
		"name":     "Cajero",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, repo.byID, 2)
}

func TestEmployeesCreate_EmpleadoNoPuede(t *testing.T) {
	repo := newCuentasRepo()
	require.NoError(t, repo.Create(&entity.Employee{
		ID: "emp-1", Email: "dueno@farmacia.com", Role: entity.RoleAdmin, Status: "active",
	}))
	app := buildCuentasApp(repo)

	resp := postJSON(t, app, "/api/employees/", tokenForRole(t, entity.RoleEmpleado), fiber.Map{
		"email":    "otro@farmacia.com",
		"password": "contrasena-segura",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Len(t, repo.byID, 1)
}
