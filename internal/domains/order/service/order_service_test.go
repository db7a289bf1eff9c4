package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "bookstore-backoffice/internal/domains/book/model"
	clientmodel "bookstore-backoffice/internal/domains/client/model"
	"bookstore-backoffice/internal/domains/order/model"
	shopmodel "bookstore-backoffice/internal/domains/shop/model"
	usermodel "bookstore-backoffice/internal/domains/user/model"
	"bookstore-backoffice/internal/shared"
	"bookstore-backoffice/pkg/cache"
)

type testEnv struct {
	store   *fakeStore
	service ServiceInterface
	sink    *fakeSink

	userID   uuid.UUID
	clientID uuid.UUID
	shopID   uuid.UUID
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	bookRepo := &fakeBookRepo{store: store}
	sink := &fakeSink{}

	userID := uuid.New()
	clientID := uuid.New()
	shopID := uuid.New()

	svc := NewService(
		&fakeOrderRepo{store: store},
		&fakeUserRepo{ids: map[uuid.UUID]bool{userID: true}},
		&fakeClientRepo{ids: map[uuid.UUID]bool{clientID: true}},
		&fakeShopRepo{ids: map[uuid.UUID]bool{shopID: true}},
		NewValidator(bookRepo),
		NewReservationManager(bookRepo),
		cache.NewNoop(),
		sink,
	)

	return &testEnv{
		store:    store,
		service:  svc,
		sink:     sink,
		userID:   userID,
		clientID: clientID,
		shopID:   shopID,
	}
}

func (e *testEnv) createRequest(lines ...model.OrderLineRequest) *model.CreateOrderRequest {
	return &model.CreateOrderRequest{
		UserID:   e.userID,
		ClientID: e.clientID,
		ShopID:   e.shopID,
		Lines:    lines,
	}
}

func (e *testEnv) updateRequest(lines ...model.OrderLineRequest) *model.UpdateOrderRequest {
	return &model.UpdateOrderRequest{
		UserID:   e.userID,
		ClientID: e.clientID,
		ShopID:   e.shopID,
		Lines:    lines,
	}
}

func line(bookID uuid.UUID, qty int, price string) model.OrderLineRequest {
	return model.OrderLineRequest{
		BookID:    bookID,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestCreateOrder_Success(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 5)
	bookB := env.store.addBook("2.50", 8)

	order, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 2, "10.00"), line(bookB, 4, "2.50")))

	require.NoError(t, err)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("30.00")), "got %s", order.TotalPrice)
	assert.Equal(t, 2, order.TotalBooks)
	assert.False(t, order.IsDeleted)

	assert.Equal(t, 3, env.store.stock(bookA))
	assert.Equal(t, 4, env.store.stock(bookB))
	assert.Equal(t, 1, env.store.commits)
	assert.Equal(t, []string{shared.OrderActionCreated}, env.sink.actions)

	stored, err := env.service.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)
}

func TestCreateOrder_MergesDuplicateLines(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 10)

	order, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 2, "10.00"), line(bookA, 3, "10.00")))

	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 5, order.Lines[0].Quantity)
	assert.Equal(t, 1, order.TotalBooks)
	assert.Equal(t, 5, env.store.stock(bookA))
}

func TestCreateOrder_EmptyLines(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.Create(context.Background(), env.createRequest())

	assert.ErrorIs(t, err, model.ErrOrderHasNoItems)
	assert.Equal(t, 0, env.store.commits)
}

func TestCreateOrder_InsufficientStock_NothingChanges(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 5)
	bookB := env.store.addBook("2.50", 1)

	_, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 2, "10.00"), line(bookB, 4, "2.50")))

	var insufficient *bookmodel.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, bookB, insufficient.BookID)

	assert.Equal(t, 5, env.store.stock(bookA))
	assert.Equal(t, 1, env.store.stock(bookB))
	assert.Empty(t, env.store.orders)
	assert.Equal(t, 1, env.store.rollbacks)
	assert.Empty(t, env.sink.actions)
}

func TestCreateOrder_BadPrice(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 5)

	_, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 1, "9.99")))

	var badPrice *model.BadPriceError
	require.ErrorAs(t, err, &badPrice)
	assert.Equal(t, bookA, badPrice.BookID)
	assert.Equal(t, 5, env.store.stock(bookA))
}

func TestCreateOrder_UnknownBook(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.Create(context.Background(),
		env.createRequest(line(uuid.New(), 1, "1.00")))

	assert.ErrorIs(t, err, bookmodel.ErrBookNotFound)
}

func TestCreateOrder_UnknownParties(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 5)
	valid := line(bookA, 1, "10.00")

	_, err := env.service.Create(context.Background(), &model.CreateOrderRequest{
		UserID: uuid.New(), ClientID: env.clientID, ShopID: env.shopID,
		Lines: []model.OrderLineRequest{valid},
	})
	assert.ErrorIs(t, err, usermodel.ErrUserNotFound)

	_, err = env.service.Create(context.Background(), &model.CreateOrderRequest{
		UserID: env.userID, ClientID: uuid.New(), ShopID: env.shopID,
		Lines: []model.OrderLineRequest{valid},
	})
	assert.ErrorIs(t, err, clientmodel.ErrClientNotFound)

	_, err = env.service.Create(context.Background(), &model.CreateOrderRequest{
		UserID: env.userID, ClientID: env.clientID, ShopID: uuid.New(),
		Lines: []model.OrderLineRequest{valid},
	})
	assert.ErrorIs(t, err, shopmodel.ErrShopNotFound)

	assert.Equal(t, 5, env.store.stock(bookA))
}

func TestUpdateOrder_ReplacesLinesAndAdjustsStock(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 10)
	bookB := env.store.addBook("4.00", 6)

	order, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 8, "10.00")))
	require.NoError(t, err)
	require.Equal(t, 2, env.store.stock(bookA))

	updated, err := env.service.Update(context.Background(), order.ID,
		env.updateRequest(line(bookA, 3, "10.00"), line(bookB, 2, "4.00")))

	require.NoError(t, err)
	assert.Equal(t, 7, env.store.stock(bookA))
	assert.Equal(t, 4, env.store.stock(bookB))
	assert.True(t, updated.TotalPrice.Equal(decimal.RequireFromString("38.00")))
	assert.Equal(t, 2, updated.TotalBooks)
	assert.Equal(t, []string{shared.OrderActionCreated, shared.OrderActionUpdated}, env.sink.actions)
}

// The order's own reservation is released before validating the new lines, so
// an update can grow a line up to held quantity plus free stock.
func TestUpdateOrder_CanUseStockHeldByOrder(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 10)

	order, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 8, "10.00")))
	require.NoError(t, err)
	require.Equal(t, 2, env.store.stock(bookA))

	_, err = env.service.Update(context.Background(), order.ID,
		env.updateRequest(line(bookA, 10, "10.00")))

	require.NoError(t, err)
	assert.Equal(t, 0, env.store.stock(bookA))
}

func TestUpdateOrder_FailureRestoresEverything(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 10)

	order, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 8, "10.00")))
	require.NoError(t, err)

	_, err = env.service.Update(context.Background(), order.ID,
		env.updateRequest(line(bookA, 11, "10.00")))

	var insufficient *bookmodel.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 10, insufficient.Available)

	// Old reservation and old lines are back in place.
	assert.Equal(t, 2, env.store.stock(bookA))
	stored, err := env.service.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, 8, stored.Lines[0].Quantity)
}

func TestUpdateOrder_NotFound(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 10)

	_, err := env.service.Update(context.Background(), uuid.New(),
		env.updateRequest(line(bookA, 1, "10.00")))

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

// A missing order is reported before the empty line list is.
func TestUpdateOrder_NotFoundWinsOverEmptyLines(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.Update(context.Background(), uuid.New(), env.updateRequest())

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestUpdateOrder_CancelledOrder(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 10)

	order, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 2, "10.00")))
	require.NoError(t, err)
	require.NoError(t, env.service.DeleteLogical(context.Background(), order.ID))

	_, err = env.service.Update(context.Background(), order.ID,
		env.updateRequest(line(bookA, 1, "10.00")))

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
	assert.Equal(t, 8, env.store.stock(bookA))
}

func TestUpdateOrder_EmptyLines(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 10)

	order, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 2, "10.00")))
	require.NoError(t, err)

	_, err = env.service.Update(context.Background(), order.ID, env.updateRequest())

	assert.ErrorIs(t, err, model.ErrOrderHasNoItems)
	assert.Equal(t, 8, env.store.stock(bookA))
}

// Cancelling hides the order but leaves its reservation committed.
func TestDeleteLogical_KeepsStockAndHidesFromLists(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 10)

	order, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 4, "10.00")))
	require.NoError(t, err)
	require.Equal(t, 6, env.store.stock(bookA))

	require.NoError(t, env.service.DeleteLogical(context.Background(), order.ID))

	assert.Equal(t, 6, env.store.stock(bookA))

	// Still readable by id, flagged deleted.
	stored, err := env.service.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)

	// Gone from listings.
	orders, total, err := env.service.ListByUser(context.Background(), env.userID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 0, total)

	assert.Equal(t, []string{shared.OrderActionCreated, shared.OrderActionCancelled}, env.sink.actions)
}

func TestDeleteLogical_Twice(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 10)

	order, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 4, "10.00")))
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteLogical(context.Background(), order.ID))
	err = env.service.DeleteLogical(context.Background(), order.ID)

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
	assert.Equal(t, 6, env.store.stock(bookA))
}

func TestDeleteHard_ActiveOrder(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 10)

	order, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 4, "10.00")))
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteHard(context.Background(), order.ID))

	assert.Equal(t, 10, env.store.stock(bookA))
	_, err = env.service.GetByID(context.Background(), order.ID)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
	assert.Equal(t, []string{shared.OrderActionCreated, shared.OrderActionDeleted}, env.sink.actions)
}

// deleteHard releases what the order currently holds, which after an update
// is the replacement lines, not the originals.
func TestDeleteHard_RestoresCurrentLines(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 10)
	bookB := env.store.addBook("4.00", 6)

	order, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 4, "10.00")))
	require.NoError(t, err)

	_, err = env.service.Update(context.Background(), order.ID,
		env.updateRequest(line(bookB, 2, "4.00")))
	require.NoError(t, err)
	require.Equal(t, 10, env.store.stock(bookA))
	require.Equal(t, 4, env.store.stock(bookB))

	require.NoError(t, env.service.DeleteHard(context.Background(), order.ID))

	assert.Equal(t, 10, env.store.stock(bookA))
	assert.Equal(t, 6, env.store.stock(bookB))
}

// A cancelled order still holds its reservation, so hard deleting it is what
// finally returns the stock.
func TestDeleteHard_AfterCancel_ReturnsStock(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 10)

	order, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 4, "10.00")))
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteLogical(context.Background(), order.ID))
	require.Equal(t, 6, env.store.stock(bookA))

	require.NoError(t, env.service.DeleteHard(context.Background(), order.ID))

	assert.Equal(t, 10, env.store.stock(bookA))
}

func TestDeleteHard_NotFound(t *testing.T) {
	env := newTestEnv()

	err := env.service.DeleteHard(context.Background(), uuid.New())

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestListByParty_FiltersOrders(t *testing.T) {
	env := newTestEnv()
	bookA := env.store.addBook("10.00", 100)

	first, err := env.service.Create(context.Background(),
		env.createRequest(line(bookA, 1, "10.00")))
	require.NoError(t, err)
	_, err = env.service.Create(context.Background(),
		env.createRequest(line(bookA, 2, "10.00")))
	require.NoError(t, err)

	orders, total, err := env.service.ListByClient(context.Background(), env.clientID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, 2, total)

	require.NoError(t, env.service.DeleteLogical(context.Background(), first.ID))

	orders, total, err = env.service.ListByShop(context.Background(), env.shopID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 1, total)
}

func TestListByParty_UnknownParty(t *testing.T) {
	env := newTestEnv()

	_, _, err := env.service.ListByUser(context.Background(), uuid.New(), 1, 20)
	assert.ErrorIs(t, err, usermodel.ErrUserNotFound)

	_, _, err = env.service.ListByClient(context.Background(), uuid.New(), 1, 20)
	assert.ErrorIs(t, err, clientmodel.ErrClientNotFound)

	_, _, err = env.service.ListByShop(context.Background(), uuid.New(), 1, 20)
	assert.ErrorIs(t, err, shopmodel.ErrShopNotFound)
}
