package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"docindex/internal/docindex/model"
	"docindex/internal/docindex/repository"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict: document was modified or already exists")
	ErrBadRequest   = errors.New("bad request")
)

type ArticleService interface {
	CreateArticle(ctx context.Context, callerID string, req model.CreateArticleReq) (*model.Article, error)
	GetArticle(ctx context.Context, id string) (*model.Article, error)
	UpdateArticle(ctx context.Context, callerID, id string, req model.UpdateArticleReq) (*model.Article, error)
	DeleteArticle(ctx context.Context, callerID, id string) error
	AddComment(ctx context.Context, callerID, articleID string, req model.CreateCommentReq) (*model.Comment, error)
	ListComments(ctx context.Context, articleID string) ([]*model.Comment, error)
}

type Service struct {
	Articles repository.DocumentRepository[model.Article]
	Comments repository.DocumentRepository[model.Comment]

	logger *slog.Logger
	now    func() time.Time
}

var _ ArticleService = (*Service)(nil)

func NewService(articles repository.DocumentRepository[model.Article], comments repository.DocumentRepository[model.Comment]) *Service {
	return &Service{
		Articles: articles,
		Comments: comments,
		logger:   slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateArticle(ctx context.Context, callerID string, req model.CreateArticleReq) (*model.Article, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return nil, ErrUnauthorized
	}

	now := s.now()
	article := &model.Article{
		Title:     req.Title,
		Body:      req.Body,
		Author:    callerID,
		Tags:      req.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	saved, err := s.Articles.Save(ctx, article)
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.logger.Info("article created", "id", saved.ID, "author", callerID)
	return saved, nil
}

func (s *Service) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrBadRequest
	}
	article, err := s.Articles.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return article, nil
}

func (s *Service) UpdateArticle(ctx context.Context, callerID, id string, req model.UpdateArticleReq) (*model.Article, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return nil, ErrUnauthorized
	}

	article, err := s.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Author != callerID {
		return nil, ErrForbidden
	}
	// Fail fast; the repository still guards against concurrent writers.
	if article.Version != req.Version {
		return nil, ErrConflict
	}

	article.Title = req.Title
	article.Body = req.Body
	article.Tags = req.Tags
	article.UpdatedAt = s.now()

	saved, err := s.Articles.Save(ctx, article)
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.logger.Info("article updated", "id", saved.ID, "version", saved.Version)
	return saved, nil
}

// DeleteArticle removes the article and its comments. Only the author may
// delete it.
func (s *Service) DeleteArticle(ctx context.Context, callerID, id string) error {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return ErrUnauthorized
	}

	article, err := s.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	if article.Author != callerID {
		return ErrForbidden
	}

	comments, err := s.Comments.FindByParentID(ctx, article.ID)
	if err != nil {
		return mapRepoError(err)
	}
	for _, c := range comments {
		if err := s.Comments.DeleteByID(ctx, c.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return mapRepoError(err)
		}
	}

	if err := s.Articles.DeleteByID(ctx, article.ID); err != nil {
		return mapRepoError(err)
	}

	s.logger.Info("article deleted", "id", article.ID, "comments", len(comments))
	return nil
}

func (s *Service) AddComment(ctx context.Context, callerID, articleID string, req model.CreateCommentReq) (*model.Comment, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return nil, ErrUnauthorized
	}

	article, err := s.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ArticleID: article.ID,
		Author:    callerID,
		Body:      req.Body,
		CreatedAt: s.now(),
	}
	saved, err := s.Comments.Save(ctx, comment)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return saved, nil
}

func (s *Service) ListComments(ctx context.Context, articleID string) ([]*model.Comment, error) {
	article, err := s.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	comments, err := s.Comments.FindByParentID(ctx, article.ID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return comments, nil
}
