package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messenger-service/internal/apperr"
	"messenger-service/internal/mocks"
	"messenger-service/internal/models"
	"messenger-service/internal/service"
)

var _ AccountService = (*mocks.AccountsMock)(nil)

func setupAuthRouter(accounts AccountService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth", NewAuthHandler(accounts).Post)
	return r
}

func TestAuthRegister(t *testing.T) {
	accounts := new(mocks.AccountsMock)
	router := setupAuthRouter(accounts)

	in := service.RegisterInput{Phone: "+79990001122", Name: "Amy"}
	accounts.On("Register", mock.Anything, in).Return(models.User{ID: 1, Phone: in.Phone, Name: "Amy", Avatar: models.DefaultUserAvatar}, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth", bytes.NewBufferString(`{"action":"register","phone":"+79990001122","name":"Amy"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, models.DefaultUserAvatar, user["avatar"])
	assert.NotContains(t, user, "last_seen")
	accounts.AssertExpectations(t)
}

func TestAuthLoginUnknownPhone(t *testing.T) {
	accounts := new(mocks.AccountsMock)
	router := setupAuthRouter(accounts)

	accounts.On("Login", mock.Anything, "+7000").Return(nil, apperr.NotFound("user not found")).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth", bytes.NewBufferString(`{"action":"login","phone":"+7000"}`)))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user not found", decode(t, rec)["error"])
}

func TestAuthUnknownAction(t *testing.T) {
	router := setupAuthRouter(new(mocks.AccountsMock))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth", bytes.NewBufferString(`{"action":"logout"}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
