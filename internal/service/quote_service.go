package service

import (
	"context"
	"strings"

	"repairdesk/internal/domain"
	"repairdesk/internal/repository"
)

// QuoteService предложения поставщиков по запчастям
type QuoteService struct {
	repo repository.QuoteRepository
}

func NewQuoteService(repo repository.QuoteRepository) *QuoteService {
	return &QuoteService{repo: repo}
}

func validateQuote(q *domain.Quote) error {
	q.Product = strings.TrimSpace(q.Product)
	q.Link = strings.TrimSpace(q.Link)
	if err := validateStruct(q); err != nil {
		return err
	}
	return nonNegative(
		money{"price", q.Price},
		money{"retailPrice", q.RetailPrice},
		money{"wholesalePrice", q.WholesalePrice},
		money{"unitPrice", q.UnitPrice},
		money{"shipping", q.Shipping},
	)
}

func (s *QuoteService) Create(ctx context.Context, q domain.Quote) (*domain.Quote, error) {
	cp := q
	cp.ID = 0
	if err := validateQuote(&cp); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *QuoteService) GetByID(ctx context.Context, id int64) (*domain.Quote, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *QuoteService) Update(ctx context.Context, q domain.Quote) (*domain.Quote, error) {
	if q.ID <= 0 {
		return nil, ErrInvalidInput
	}
	cp := q
	if err := validateQuote(&cp); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *QuoteService) List(ctx context.Context, f repository.QuoteFilter) ([]domain.Quote, error) {
	return s.repo.List(ctx, f)
}
