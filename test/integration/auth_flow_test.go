package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"

	"drive-assistant-be/internal/bootstrap"
	"drive-assistant-be/internal/config"
	"drive-assistant-be/internal/dto"
	"drive-assistant-be/internal/server"
	"drive-assistant-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func TestAuthFlow(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	if os.Getenv("DB_CONNECTION_STRING") == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	email := fmt.Sprintf("flow-%s@example.com", uuid.New().String())
	password := "password123"

	postJSON := func(path string, body interface{}) *envelope {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, 15000)
		if err != nil {
			t.Fatalf("request %s failed: %v", path, err)
		}
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("decoding %s response: %v", path, err)
		}
		return &env
	}

	// 1. Register
	reg := postJSON("/api/auth/register", dto.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Flow Test User",
	})
	assert.True(t, reg.Success, "register should succeed: %s", reg.Message)

	// 2. Duplicate register is rejected
	dup := postJSON("/api/auth/register", dto.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Flow Test User",
	})
	assert.False(t, dup.Success)

	// 3. Login with wrong password
	bad := postJSON("/api/auth/login", dto.LoginRequest{
		Email:    email,
		Password: "wrong-password",
	})
	assert.False(t, bad.Success)

	// 4. Login with correct password
	login := postJSON("/api/auth/login", dto.LoginRequest{
		Email:    email,
		Password: password,
	})
	assert.True(t, login.Success, "login should succeed: %s", login.Message)

	var auth dto.AuthResponse
	err = json.Unmarshal(login.Data, &auth)
	assert.NoError(t, err)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, email, auth.User.Email)

	// 5. Profile requires the token
	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	resp, err := app.Test(req, 15000)
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	resp, err = app.Test(req, 15000)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var profileEnv envelope
	err = json.NewDecoder(resp.Body).Decode(&profileEnv)
	assert.NoError(t, err)
	assert.True(t, profileEnv.Success)

	var profile dto.UserProfileResponse
	err = json.Unmarshal(profileEnv.Data, &profile)
	assert.NoError(t, err)
	assert.Equal(t, "Flow Test User", profile.FullName)
}
