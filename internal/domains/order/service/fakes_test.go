package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	bookmodel "bookstore-backoffice/internal/domains/book/model"
	clientmodel "bookstore-backoffice/internal/domains/client/model"
	"bookstore-backoffice/internal/domains/order/model"
	shopmodel "bookstore-backoffice/internal/domains/shop/model"
	usermodel "bookstore-backoffice/internal/domains/user/model"
)

// fakeStore backs the fake repositories with snapshot-based transactions:
// begin copies all state, rollback restores it, commit drops the snapshot.
// That mirrors what the database gives the real repositories.
type fakeStore struct {
	books  map[uuid.UUID]*bookmodel.Book
	orders map[uuid.UUID]*model.Order

	snapBooks  map[uuid.UUID]bookmodel.Book
	snapOrders map[uuid.UUID]model.Order

	commits   int
	rollbacks int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		books:  make(map[uuid.UUID]*bookmodel.Book),
		orders: make(map[uuid.UUID]*model.Order),
	}
}

func (s *fakeStore) addBook(price string, stock int) uuid.UUID {
	id := uuid.New()
	s.books[id] = &bookmodel.Book{
		ID:       id,
		Title:    "book " + id.String()[:8],
		Author:   "author",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	return id
}

func (s *fakeStore) stock(id uuid.UUID) int {
	return s.books[id].Stock
}

func (s *fakeStore) begin() {
	s.snapBooks = make(map[uuid.UUID]bookmodel.Book, len(s.books))
	for id, b := range s.books {
		s.snapBooks[id] = *b
	}
	s.snapOrders = make(map[uuid.UUID]model.Order, len(s.orders))
	for id, o := range s.orders {
		s.snapOrders[id] = copyOrder(*o)
	}
}

func (s *fakeStore) commit() {
	s.snapBooks = nil
	s.snapOrders = nil
	s.commits++
}

func (s *fakeStore) rollback() {
	if s.snapBooks == nil {
		return
	}
	s.books = make(map[uuid.UUID]*bookmodel.Book, len(s.snapBooks))
	for id, b := range s.snapBooks {
		b := b
		s.books[id] = &b
	}
	s.orders = make(map[uuid.UUID]*model.Order, len(s.snapOrders))
	for id, o := range s.snapOrders {
		o := copyOrder(o)
		s.orders[id] = &o
	}
	s.snapBooks = nil
	s.snapOrders = nil
	s.rollbacks++
}

func copyOrder(o model.Order) model.Order {
	lines := make([]model.OrderLine, len(o.Lines))
	copy(lines, o.Lines)
	o.Lines = lines
	return o
}

// fakeBookRepo applies the same stock rules as the postgres repository.
type fakeBookRepo struct {
	store *fakeStore
}

func (f *fakeBookRepo) Create(ctx context.Context, book *bookmodel.Book) error {
	f.store.books[book.ID] = book
	return nil
}

func (f *fakeBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*bookmodel.Book, error) {
	book, ok := f.store.books[id]
	if !ok {
		return nil, bookmodel.ErrBookNotFound
	}
	b := *book
	return &b, nil
}

func (f *fakeBookRepo) GetByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*bookmodel.Book, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeBookRepo) List(ctx context.Context, page, limit int) ([]bookmodel.Book, int, error) {
	books := make([]bookmodel.Book, 0, len(f.store.books))
	for _, b := range f.store.books {
		books = append(books, *b)
	}
	return books, len(books), nil
}

func (f *fakeBookRepo) Update(ctx context.Context, book *bookmodel.Book) error {
	if _, ok := f.store.books[book.ID]; !ok {
		return bookmodel.ErrBookNotFound
	}
	f.store.books[book.ID] = book
	return nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.store.books[id]; !ok {
		return bookmodel.ErrBookNotFound
	}
	delete(f.store.books, id)
	return nil
}

func (f *fakeBookRepo) ReserveStockWithTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, quantity int) error {
	book, ok := f.store.books[bookID]
	if !ok {
		return bookmodel.ErrBookNotFound
	}
	if book.Stock < quantity {
		return bookmodel.NewInsufficientStockError(bookID, quantity, book.Stock)
	}
	book.Stock -= quantity
	return nil
}

func (f *fakeBookRepo) ReleaseStockWithTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, quantity int) error {
	book, ok := f.store.books[bookID]
	if !ok {
		return bookmodel.ErrBookNotFound
	}
	book.Stock += quantity
	return nil
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (f *fakeOrderRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	f.store.begin()
	return nil, nil
}

func (f *fakeOrderRepo) CommitTx(ctx context.Context, tx pgx.Tx) error {
	f.store.commit()
	return nil
}

func (f *fakeOrderRepo) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	f.store.rollback()
	return nil
}

func (f *fakeOrderRepo) CreateWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	o := copyOrder(*order)
	f.store.orders[order.ID] = &o
	return nil
}

func (f *fakeOrderRepo) UpdateWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	existing, ok := f.store.orders[order.ID]
	if !ok || existing.IsDeleted {
		return model.ErrOrderNotFound
	}
	o := copyOrder(*order)
	f.store.orders[order.ID] = &o
	return nil
}

func (f *fakeOrderRepo) DeleteWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if _, ok := f.store.orders[id]; !ok {
		return model.ErrOrderNotFound
	}
	delete(f.store.orders, id)
	return nil
}

func (f *fakeOrderRepo) MarkDeletedWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	existing, ok := f.store.orders[id]
	if !ok || existing.IsDeleted {
		return model.ErrOrderNotFound
	}
	existing.IsDeleted = true
	return nil
}

func (f *fakeOrderRepo) GetByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, ok := f.store.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	o := copyOrder(*order)
	return &o, nil
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int, error) {
	return f.list(func(o *model.Order) bool { return o.UserID == userID })
}

func (f *fakeOrderRepo) ListByClient(ctx context.Context, clientID uuid.UUID, page, limit int) ([]model.Order, int, error) {
	return f.list(func(o *model.Order) bool { return o.ClientID == clientID })
}

func (f *fakeOrderRepo) ListByShop(ctx context.Context, shopID uuid.UUID, page, limit int) ([]model.Order, int, error) {
	return f.list(func(o *model.Order) bool { return o.ShopID == shopID })
}

func (f *fakeOrderRepo) ListAll(ctx context.Context, page, limit int) ([]model.Order, int, error) {
	return f.list(func(o *model.Order) bool { return true })
}

func (f *fakeOrderRepo) list(match func(*model.Order) bool) ([]model.Order, int, error) {
	orders := make([]model.Order, 0)
	for _, o := range f.store.orders {
		if o.IsDeleted || !match(o) {
			continue
		}
		orders = append(orders, copyOrder(*o))
	}
	return orders, len(orders), nil
}

type fakeUserRepo struct {
	ids map[uuid.UUID]bool
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*usermodel.User, error) {
	if !f.ids[id] {
		return nil, usermodel.ErrUserNotFound
	}
	return &usermodel.User{ID: id}, nil
}

func (f *fakeUserRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.ids[id], nil
}

type fakeClientRepo struct {
	ids map[uuid.UUID]bool
}

func (f *fakeClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*clientmodel.Client, error) {
	if !f.ids[id] {
		return nil, clientmodel.ErrClientNotFound
	}
	return &clientmodel.Client{ID: id}, nil
}

func (f *fakeClientRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.ids[id], nil
}

type fakeShopRepo struct {
	ids map[uuid.UUID]bool
}

func (f *fakeShopRepo) GetByID(ctx context.Context, id uuid.UUID) (*shopmodel.Shop, error) {
	if !f.ids[id] {
		return nil, shopmodel.ErrShopNotFound
	}
	return &shopmodel.Shop{ID: id}, nil
}

func (f *fakeShopRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.ids[id], nil
}

// fakeSink records published actions in order.
type fakeSink struct {
	actions []string
}

func (f *fakeSink) Publish(ctx context.Context, action string, order *model.Order) error {
	f.actions = append(f.actions, action)
	return nil
}
