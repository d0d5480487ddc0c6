package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lanzy-lanzy/tailoring/internal/repository"
	"github.com/lanzy-lanzy/tailoring/internal/service"
)

// Handlers is the HTTP handler set.
type Handlers struct {
	Auth         *AuthHandler
	Customer     *CustomerHandler
	Inventory    *InventoryHandler
	Garment      *GarmentHandler
	Order        *OrderHandler
	Task         *TaskHandler
	Payment      *PaymentHandler
	Rework       *ReworkHandler
	Notification *NotificationHandler
	Report       *ReportHandler
	Dashboard    *DashboardHandler
	User         *UserHandler
	SSE          *SSEHandler
}

// === Response helpers ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func List(c *gin.Context, items interface{}, page, pageSize int, total int64) {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// Fail maps a service error onto the response envelope.
func Fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		Forbidden(c, err.Error())
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrInsufficientStock):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// === Request context helpers ===

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetActor rebuilds the principal from the JWT middleware values.
func GetActor(c *gin.Context) service.Actor {
	actor := service.Actor{ID: GetUserID(c)}
	if name, ok := c.Get("user_name"); ok {
		actor.Name, _ = name.(string)
	}
	if role, ok := c.Get("user_role"); ok {
		actor.Role, _ = role.(string)
	}
	return actor
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}

// queryFilters copies the named query params into a filter map.
func queryFilters(c *gin.Context, keys ...string) map[string]string {
	filters := make(map[string]string, len(keys))
	for _, key := range keys {
		if v := c.Query(key); v != "" {
			filters[key] = v
		}
	}
	return filters
}
