package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	clientmodel "bookstore-backoffice/internal/domains/client/model"
	clientrepo "bookstore-backoffice/internal/domains/client/repository"
	"bookstore-backoffice/internal/domains/order/model"
	"bookstore-backoffice/internal/domains/order/repository"
	shopmodel "bookstore-backoffice/internal/domains/shop/model"
	shoprepo "bookstore-backoffice/internal/domains/shop/repository"
	usermodel "bookstore-backoffice/internal/domains/user/model"
	userrepo "bookstore-backoffice/internal/domains/user/repository"
	"bookstore-backoffice/internal/shared"
	"bookstore-backoffice/pkg/cache"
	"bookstore-backoffice/pkg/logger"
)

const orderCacheTTL = 10 * time.Minute

func orderCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("orders:%s", id)
}

type ServiceInterface interface {
	Create(ctx context.Context, req *model.CreateOrderRequest) (*model.Order, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateOrderRequest) (*model.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	DeleteHard(ctx context.Context, id uuid.UUID) error
	DeleteLogical(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, page, limit int) ([]model.Order, int, error)
	ListByShop(ctx context.Context, shopID uuid.UUID, page, limit int) ([]model.Order, int, error)
	ListAll(ctx context.Context, page, limit int) ([]model.Order, int, error)
}

// Service drives the order lifecycle. Every mutation runs release, validate,
// reserve and the order write inside one transaction, so stock and order rows
// never diverge.
type Service struct {
	orderRepo    repository.RepositoryInterface
	userRepo     userrepo.RepositoryInterface
	clientRepo   clientrepo.RepositoryInterface
	shopRepo     shoprepo.RepositoryInterface
	validator    *Validator
	reservations *ReservationManager
	cache        cache.Cache
	sink         EventSink
}

func NewService(
	orderRepo repository.RepositoryInterface,
	userRepo userrepo.RepositoryInterface,
	clientRepo clientrepo.RepositoryInterface,
	shopRepo shoprepo.RepositoryInterface,
	validator *Validator,
	reservations *ReservationManager,
	cache cache.Cache,
	sink EventSink,
) ServiceInterface {
	return &Service{
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		clientRepo:   clientRepo,
		shopRepo:     shopRepo,
		validator:    validator,
		reservations: reservations,
		cache:        cache,
		sink:         sink,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateOrderRequest) (*model.Order, error) {
	// 1. Validate request shape
	if err := req.Validate(); err != nil {
		return nil, err
	}
	for _, line := range req.Lines {
		if err := line.Validate(); err != nil {
			return nil, err
		}
	}

	// 2. Verify the parties exist, first missing one wins
	if err := s.checkParties(ctx, req.UserID, req.ClientID, req.ShopID); err != nil {
		return nil, err
	}

	// 3. Merge duplicate lines
	lines := AggregateLines(req.Lines)
	if len(lines) == 0 {
		return nil, model.ErrOrderHasNoItems
	}

	// 4. Validate, reserve and persist in one transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = s.orderRepo.RollbackTx(ctx, tx)
		}
	}()

	if err = s.validator.ValidateLines(ctx, tx, lines); err != nil {
		return nil, err
	}

	if err = s.reservations.Reserve(ctx, tx, lines); err != nil {
		return nil, err
	}

	totalPrice, totalBooks := ComputeTotals(lines)
	now := time.Now()
	order := &model.Order{
		ID:         uuid.New(),
		UserID:     req.UserID,
		ClientID:   req.ClientID,
		ShopID:     req.ShopID,
		Lines:      lines,
		TotalPrice: totalPrice,
		TotalBooks: totalBooks,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err = s.orderRepo.CreateWithTx(ctx, tx, order); err != nil {
		return nil, err
	}

	if err = s.orderRepo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	// 5. Post-commit side effects, best effort
	s.cacheOrder(ctx, order)
	s.publish(ctx, shared.OrderActionCreated, order)

	logger.Info("Order created", map[string]interface{}{
		"order_id":    order.ID.String(),
		"total_books": order.TotalBooks,
	})

	return order, nil
}

// Update replaces the order's lines. The old reservation is released first
// inside the transaction, so validation of the new lines sees the restored
// stock. A failure at any step rolls back to the pre-update state.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateOrderRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	for _, line := range req.Lines {
		if err := line.Validate(); err != nil {
			return nil, err
		}
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = s.orderRepo.RollbackTx(ctx, tx)
		}
	}()

	// Missing order wins over every other failure.
	existing, err := s.orderRepo.GetByIDWithTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if existing.IsDeleted {
		err = model.ErrOrderNotFound
		return nil, err
	}

	if err = s.checkParties(ctx, req.UserID, req.ClientID, req.ShopID); err != nil {
		return nil, err
	}

	lines := AggregateLines(req.Lines)
	if len(lines) == 0 {
		err = model.ErrOrderHasNoItems
		return nil, err
	}

	// 1. Return the old reservation
	if err = s.reservations.Release(ctx, tx, existing.Lines); err != nil {
		return nil, err
	}

	// 2. Validate the new lines against the restored stock
	if err = s.validator.ValidateLines(ctx, tx, lines); err != nil {
		return nil, err
	}

	// 3. Take the new reservation
	if err = s.reservations.Reserve(ctx, tx, lines); err != nil {
		return nil, err
	}

	totalPrice, totalBooks := ComputeTotals(lines)
	existing.Lines = lines
	existing.TotalPrice = totalPrice
	existing.TotalBooks = totalBooks
	existing.UpdatedAt = time.Now()

	if err = s.orderRepo.UpdateWithTx(ctx, tx, existing); err != nil {
		return nil, err
	}

	if err = s.orderRepo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	s.cacheOrder(ctx, existing)
	s.publish(ctx, shared.OrderActionUpdated, existing)

	return existing, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var cached model.Order
	hit, err := s.cache.Get(ctx, orderCacheKey(id), &cached)
	if err != nil {
		logger.Error("Order cache read failed", err)
	}
	if hit {
		return &cached, nil
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheOrder(ctx, order)

	return order, nil
}

// DeleteHard removes the order and its lines permanently and returns the
// stock held by the current lines. Cancelling never touched stock, so this
// applies to cancelled orders too.
func (s *Service) DeleteHard(ctx context.Context, id uuid.UUID) error {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = s.orderRepo.RollbackTx(ctx, tx)
		}
	}()

	existing, err := s.orderRepo.GetByIDWithTx(ctx, tx, id)
	if err != nil {
		return err
	}

	if err = s.reservations.Release(ctx, tx, existing.Lines); err != nil {
		return err
	}

	if err = s.orderRepo.DeleteWithTx(ctx, tx, id); err != nil {
		return err
	}

	if err = s.orderRepo.CommitTx(ctx, tx); err != nil {
		return err
	}

	s.dropFromCache(ctx, id)
	s.publish(ctx, shared.OrderActionDeleted, existing)

	return nil
}

// DeleteLogical cancels the order's visibility only. The reservation stays
// in place; the order drops out of listings but remains readable by id.
// Hard delete is the one path that returns stock.
func (s *Service) DeleteLogical(ctx context.Context, id uuid.UUID) error {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = s.orderRepo.RollbackTx(ctx, tx)
		}
	}()

	existing, err := s.orderRepo.GetByIDWithTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if existing.IsDeleted {
		err = model.ErrOrderNotFound
		return err
	}

	if err = s.orderRepo.MarkDeletedWithTx(ctx, tx, id); err != nil {
		return err
	}

	if err = s.orderRepo.CommitTx(ctx, tx); err != nil {
		return err
	}

	s.dropFromCache(ctx, id)
	existing.IsDeleted = true
	s.publish(ctx, shared.OrderActionCancelled, existing)

	return nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int, error) {
	page, limit = normalizePaging(page, limit)

	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, usermodel.ErrUserNotFound
	}

	return s.orderRepo.ListByUser(ctx, userID, page, limit)
}

func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID, page, limit int) ([]model.Order, int, error) {
	page, limit = normalizePaging(page, limit)

	exists, err := s.clientRepo.Exists(ctx, clientID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, clientmodel.ErrClientNotFound
	}

	return s.orderRepo.ListByClient(ctx, clientID, page, limit)
}

func (s *Service) ListByShop(ctx context.Context, shopID uuid.UUID, page, limit int) ([]model.Order, int, error) {
	page, limit = normalizePaging(page, limit)

	exists, err := s.shopRepo.Exists(ctx, shopID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, shopmodel.ErrShopNotFound
	}

	return s.orderRepo.ListByShop(ctx, shopID, page, limit)
}

func (s *Service) ListAll(ctx context.Context, page, limit int) ([]model.Order, int, error) {
	page, limit = normalizePaging(page, limit)
	return s.orderRepo.ListAll(ctx, page, limit)
}

func (s *Service) checkParties(ctx context.Context, userID, clientID, shopID uuid.UUID) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return usermodel.ErrUserNotFound
	}

	exists, err = s.clientRepo.Exists(ctx, clientID)
	if err != nil {
		return err
	}
	if !exists {
		return clientmodel.ErrClientNotFound
	}

	exists, err = s.shopRepo.Exists(ctx, shopID)
	if err != nil {
		return err
	}
	if !exists {
		return shopmodel.ErrShopNotFound
	}

	return nil
}

func (s *Service) cacheOrder(ctx context.Context, order *model.Order) {
	if err := s.cache.Set(ctx, orderCacheKey(order.ID), order, orderCacheTTL); err != nil {
		logger.Error("Order cache write failed", err)
	}
}

func (s *Service) dropFromCache(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, orderCacheKey(id)); err != nil {
		logger.Error("Order cache delete failed", err)
	}
}

func (s *Service) publish(ctx context.Context, action string, order *model.Order) {
	if err := s.sink.Publish(ctx, action, order); err != nil {
		logger.Error("Order event publish failed", err)
	}
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
