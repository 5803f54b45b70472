package util

import (
	"farsihub_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testUser() *model.User {
	u := &model.User{
		Name:  "Sara",
		Email: "sara@test.test",
		Role:  model.Student,
	}
	u.ID = model.GenerateUUID()
	return u
}

func TestGenerateAndParseJWT(t *testing.T) {
	user := testUser()

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseJWT(token, "test-secret")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.Student, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(testUser(), "test-secret", time.Hour)
	assert.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	token, err := GenerateJWT(testUser(), "test-secret", -time.Minute)
	assert.NoError(t, err)

	_, err = ParseJWT(token, "test-secret")
	assert.Error(t, err)
}

func TestJWTUniqueTokenIDs(t *testing.T) {
	user := testUser()

	first, err := GenerateJWT(user, "test-secret", time.Hour)
	assert.NoError(t, err)
	second, err := GenerateJWT(user, "test-secret", time.Hour)
	assert.NoError(t, err)

	c1, err := ParseJWT(first, "test-secret")
	assert.NoError(t, err)
	c2, err := ParseJWT(second, "test-secret")
	assert.NoError(t, err)

	// Each token revokes independently on logout.
	assert.NotEqual(t, c1.ID, c2.ID)
}
