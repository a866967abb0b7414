package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, "POST", "/api/auth/register", "", map[string]string{
		"username": "newuser",
		"email":    "newuser@example.com",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, data(t, body)["token"])

	resp, body = env.request(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "newuser",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, data(t, body)["token"])

	resp, _ = env.request(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "newuser",
		"password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(t, "POST", "/api/auth/register", "", map[string]string{
		"username": "x",
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "profiled")

	resp, body := env.request(t, "GET", "/api/user/profile", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	d := data(t, body)
	assert.Equal(t, "profiled", d["username"])
	assert.Equal(t, "profiled@example.com", d["email"])

	resp, _ = env.request(t, "GET", "/api/user/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
