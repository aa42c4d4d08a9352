package handlers

import (
	"net/http"
	"strconv"

	"cvmatch_backend/internal/logger"
	"cvmatch_backend/internal/parser"
	"cvmatch_backend/internal/repositories"
	"cvmatch_backend/internal/validator"
	"cvmatch_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// BindAndValidate_JSON биндит тело запроса и гоняет его через валидатор.
// Возвращает false, если ответ об ошибке уже отправлен.
func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBind(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// HandleServiceError мапит sentinel-ошибки репозиториев/парсера в AppError
// и отправляет ответ.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, repositories.ErrProjectNotFound),
		apperrors.Is(err, repositories.ErrProjectCVNotFound),
		apperrors.Is(err, repositories.ErrUserNotFound):
		apperrors.HandleError(c, apperrors.ErrNotFound(err))
	case apperrors.Is(err, repositories.ErrUserAlreadyExists):
		apperrors.HandleError(c, apperrors.ErrAlreadyExists(err))
	case apperrors.Is(err, parser.ErrFileUnreadable):
		apperrors.HandleError(c, apperrors.New(apperrors.CodeFileUnreadable, "parsing", "CV file is missing or unreadable", http.StatusUnprocessableEntity))
	case apperrors.Is(err, parser.ErrUnsupportedFileType):
		apperrors.HandleError(c, apperrors.ErrUnsupportedFileType)
	case apperrors.Is(err, parser.ErrFileTooLarge):
		apperrors.HandleError(c, apperrors.ErrFileTooLarge)
	case apperrors.Is(err, parser.ErrParseFailed):
		apperrors.HandleError(c, apperrors.ErrParsingFailed(err))
	default:
		apperrors.HandleError(c, err)
	}
}

// ParseQueryInt читает числовой query-параметр с дефолтом
func ParseQueryInt(c *gin.Context, name string, defaultValue int) int {
	if raw := c.Query(name); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// ParsePagination читает page/page_size с разумными границами
func ParsePagination(c *gin.Context) (int, int) {
	page := ParseQueryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := ParseQueryInt(c, "page_size", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
