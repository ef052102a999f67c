package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maxviazov/dispensing-data-access/internal/repository"
	"github.com/maxviazov/dispensing-data-access/internal/service"
	"github.com/maxviazov/dispensing-data-access/pkg/response"
)

// ResourceHandler serves lookup by key and filtered listing for one entity type.
type ResourceHandler[T any] struct {
	reader service.Reader[T]
}

func NewResourceHandler[T any](reader service.Reader[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{reader: reader}
}

func (h *ResourceHandler[T]) Register(g *gin.RouterGroup) {
	g.GET("", h.list)
	g.GET("/:key", h.get)
}

func (h *ResourceHandler[T]) get(c *gin.Context) {
	key, err := uuid.Parse(c.Param("key"))
	if err != nil {
		response.WriteError(c, repository.NewInvalidInput(repository.FieldError{Field: "key", Message: "must be a UUID"}))
		return
	}
	v, err := h.reader.Get(c.Request.Context(), key)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, v)
}

func (h *ResourceHandler[T]) list(c *gin.Context) {
	criteria, page, err := parseListRequest(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.reader.List(c.Request.Context(), criteria, page)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
