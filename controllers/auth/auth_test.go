package authController_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/database/dbtest"
	authRoutes "lms/routers/authRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}
	database.Database = database.DbInstance{Db: dbtest.New(t)}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	return app
}

func post(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestSignupAndLogin(t *testing.T) {
	app := newApp(t)
	signup := map[string]any{"name": "Ada Lovelace", "email": "Ada@Example.com", "password": "analytical"}

	status, res := post(t, app, "/auth/signup", signup)
	require.Equal(t, fiber.StatusCreated, status, res["message"])
	user := res["data"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.Equal(t, "STUDENT", user["role"])
	assert.NotContains(t, user, "password")

	status, _ = post(t, app, "/auth/signup", signup)
	assert.Equal(t, fiber.StatusConflict, status)

	status, res = post(t, app, "/auth/login", map[string]any{"email": "ada@example.com", "password": "analytical"})
	require.Equal(t, fiber.StatusOK, status, res["message"])
	assert.NotEmpty(t, res["data"].(map[string]any)["token"])

	token := res["data"].(map[string]any)["token"].(string)

	status, _ = post(t, app, "/auth/login", map[string]any{"email": "ada@example.com", "password": "wrong-password"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	req := httptest.NewRequest("GET", "/auth/login/history?page=1&limit=5", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var history struct {
		Data struct {
			LoginTracking []map[string]any `json:"loginTracking"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	assert.Len(t, history.Data.LoginTracking, 1)
}

func TestSignupValidation(t *testing.T) {
	app := newApp(t)

	status, res := post(t, app, "/auth/signup", map[string]any{"name": "A", "email": "nope", "password": "short"})
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	errs := res["data"].(map[string]any)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}
