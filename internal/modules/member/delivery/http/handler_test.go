package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"anoa.com/threadboard/internal/mocks"
	memberDto "anoa.com/threadboard/internal/modules/member/dto"
	member "anoa.com/threadboard/internal/modules/member/service"
	"anoa.com/threadboard/pkg/validator"
)

var currentUser = uuid.New()

func setupMemberRouter(svc *mocks.MemberServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.RegisterCustomRules()

	h := NewMemberHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", currentUser.String())
		c.Next()
	})
	r.GET("/threads/:thread_id/members", h.ListMembers)
	r.POST("/threads/:thread_id/members", h.AddMember)
	return r
}

func postMember(router *gin.Engine, threadID uuid.UUID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/threads/"+threadID.String()+"/members", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAddMember(t *testing.T) {
	svc := new(mocks.MemberServiceMock)
	router := setupMemberRouter(svc)
	threadID := uuid.New()
	svc.On("AddMember", mock.Anything, currentUser, threadID, "bob").
		Return(&memberDto.MemberResponse{UserID: uuid.New(), Username: "bob"}, nil).Once()

	rec := postMember(router, threadID, `{"username":"bob"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestAddMemberAlreadyMember(t *testing.T) {
	svc := new(mocks.MemberServiceMock)
	router := setupMemberRouter(svc)
	threadID := uuid.New()
	svc.On("AddMember", mock.Anything, currentUser, threadID, "bob").Return(nil, member.ErrAlreadyMember).Once()

	rec := postMember(router, threadID, `{"username":"bob"}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already a member")
}

func TestAddMemberMissingUsername(t *testing.T) {
	svc := new(mocks.MemberServiceMock)
	router := setupMemberRouter(svc)

	rec := postMember(router, uuid.New(), `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
