package handler

import (
	"errors"
	"net/http"

	postDto "anoa.com/threadboard/internal/modules/post/dto"
	post "anoa.com/threadboard/internal/modules/post/service"
	"anoa.com/threadboard/pkg/apperror"
	commonDto "anoa.com/threadboard/pkg/dto"
	"anoa.com/threadboard/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PostHandler struct {
	service post.PostService
}

func NewPostHandler(service post.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// CreatePost accepts multipart/form-data with a "content" field and an optional "file".
func (h *PostHandler) CreatePost(c *gin.Context) {
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

	// Leave room for the other form fields on top of the file.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, postDto.MaxAttachmentSize+(1<<20))

	fileHeader, err := c.FormFile("file")
	req := postDto.CreatePostRequest{Content: c.PostForm("content")}

	switch {
	case err == nil:
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
			return
		}
		defer file.Close()

		req.Attachment = &postDto.Attachment{
			Reader:      file,
			FileName:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// No file; the post is text only.
	default:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.ResponseError(c, apperror.New(http.StatusRequestEntityTooLarge, "uploaded file is too large", err))
			return
		}
		response.ResponseError(c, apperror.New(http.StatusBadRequest, "invalid multipart form", apperror.ErrBadRequest))
		return
	}

	created, err := h.service.CreatePost(c.Request.Context(), userID, threadID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *PostHandler) ListPosts(c *gin.Context) {
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

	posts, err := h.service.ListPosts(c.Request.Context(), userID, threadID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.NewListResponse(posts))
}
