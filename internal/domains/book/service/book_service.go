package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookstore-backoffice/internal/domains/book/model"
	"bookstore-backoffice/internal/domains/book/repository"
	"bookstore-backoffice/pkg/logger"
)

type ServiceInterface interface {
	Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, page, limit int) ([]model.Book, int, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo repository.RepositoryInterface
}

func NewService(repo repository.RepositoryInterface) ServiceInterface {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	book := &model.Book{
		ID:          uuid.New(),
		Title:       req.Title,
		Author:      req.Author,
		Publisher:   req.Publisher,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	logger.Info("Book created", map[string]interface{}{
		"book_id": book.ID.String(),
		"title":   book.Title,
	})

	return book, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, page, limit int) ([]model.Book, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	return s.repo.List(ctx, page, limit)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	book.Title = req.Title
	book.Author = req.Author
	book.Publisher = req.Publisher
	book.Description = req.Description
	book.Price = req.Price
	book.Stock = req.Stock
	book.IsActive = req.IsActive
	book.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
