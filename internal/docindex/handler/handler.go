package handler

import (
	"net/http"

	"docindex/internal/docindex/model"
	"docindex/internal/docindex/service"

	"github.com/labstack/echo/v4"
)

type ArticleHandler struct {
	Service service.ArticleService
}

func NewArticleHandler(s service.ArticleService) *ArticleHandler {
	return &ArticleHandler{Service: s}
}

func (h *ArticleHandler) extractCallerID(c echo.Context) (string, error) {
	callerID := c.Request().Header.Get("x-user-id")
	if callerID == "" {
		return "", service.ErrUnauthorized
	}
	return callerID, nil
}

func invalidBody(c echo.Context) error {
	return respond(c, http.StatusBadRequest, model.ErrorResponse{
		Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
	})
}

// PostArticle handles POST /articles
func (h *ArticleHandler) PostArticle(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req model.CreateArticleReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := req.Validate(); err != nil {
		return respond(c, http.StatusBadRequest, validationError(err))
	}

	article, err := h.Service.CreateArticle(c.Request().Context(), callerID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, article)
}

// GetArticle handles GET /articles/:id
func (h *ArticleHandler) GetArticle(c echo.Context) error {
	article, err := h.Service.GetArticle(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, article)
}

// PutArticle handles PUT /articles/:id
func (h *ArticleHandler) PutArticle(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req model.UpdateArticleReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := req.Validate(); err != nil {
		return respond(c, http.StatusBadRequest, validationError(err))
	}

	article, err := h.Service.UpdateArticle(c.Request().Context(), callerID, c.Param("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, article)
}

// DeleteArticle handles DELETE /articles/:id
func (h *ArticleHandler) DeleteArticle(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.Service.DeleteArticle(c.Request().Context(), callerID, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

// PostComment handles POST /articles/:id/comments
func (h *ArticleHandler) PostComment(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req model.CreateCommentReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := req.Validate(); err != nil {
		return respond(c, http.StatusBadRequest, validationError(err))
	}

	comment, err := h.Service.AddComment(c.Request().Context(), callerID, c.Param("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetComments handles GET /articles/:id/comments
func (h *ArticleHandler) GetComments(c echo.Context) error {
	comments, err := h.Service.ListComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	if comments == nil {
		comments = []*model.Comment{}
	}
	return c.JSON(http.StatusOK, comments)
}
