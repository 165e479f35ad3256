package handler

import (
	"net/http"

	memberDto "anoa.com/threadboard/internal/modules/member/dto"
	member "anoa.com/threadboard/internal/modules/member/service"
	commonDto "anoa.com/threadboard/pkg/dto"
	"anoa.com/threadboard/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MemberHandler struct {
	service member.MemberService
}

func NewMemberHandler(service member.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

func (h *MemberHandler) AddMember(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("thread_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
		return
	}

	var req memberDto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	added, err := h.service.AddMember(c.Request.Context(), userID, threadID, req.Username)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, added)
}

func (h *MemberHandler) ListMembers(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("thread_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), userID, threadID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.NewListResponse(members))
}
