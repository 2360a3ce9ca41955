package impl

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// stubTxManager runs the unit of work against a fixed factory without any
// real transaction; the repository mocks inside observe every call.
type stubTxManager struct {
	factory repository.RepositoryFactory
}

func (m *stubTxManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

// stubFactory hands the same mocks out for every repository.
type stubFactory struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
}

func (f *stubFactory) UserRepo() repository.UserRepository       { return f.userRepo }
func (f *stubFactory) ProductRepo() repository.ProductRepository { return f.productRepo }
func (f *stubFactory) ReviewRepo() repository.ReviewRepository   { return f.reviewRepo }
func (f *stubFactory) OrderRepo() repository.OrderRepository     { return f.orderRepo }

// --- Repository mocks ---

type mockUserRepository struct{ mock.Mock }

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *mockUserRepository) FindByResetHash(ctx context.Context, hash string) (*entity.User, error) {
	args := m.Called(ctx, hash)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) UpdateResetTicket(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

// mockCollection provides the generic half of the repository mocks.
type mockCollection[E any] struct{ mock.Mock }

func (m *mockCollection[E]) QueryOptions() query.Options {
	args := m.Called()
	opts, _ := args.Get(0).(query.Options)

	return opts
}

func (m *mockCollection[E]) Create(ctx context.Context, item *E) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockCollection[E]) FindByID(ctx context.Context, id uuid.UUID) (*E, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*E)

	return item, args.Error(1)
}

func (m *mockCollection[E]) List(ctx context.Context, plan *query.Plan, extra map[string]any) (*repository.Page[E], error) {
	args := m.Called(ctx, plan, extra)
	page, _ := args.Get(0).(*repository.Page[E])

	return page, args.Error(1)
}

func (m *mockCollection[E]) Patch(ctx context.Context, id uuid.UUID, patch map[string]any) (*E, error) {
	args := m.Called(ctx, id, patch)
	item, _ := args.Get(0).(*E)

	return item, args.Error(1)
}

func (m *mockCollection[E]) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockProductRepository struct {
	mockCollection[entity.Product]
}

func (m *mockProductRepository) UpdateRatingSummary(ctx context.Context, productID uuid.UUID, summary entity.RatingSummary) error {
	return m.Called(ctx, productID, summary).Error(0)
}

func (m *mockProductRepository) AddImage(ctx context.Context, image *entity.ProductImage) error {
	return m.Called(ctx, image).Error(0)
}

func (m *mockProductRepository) PriceByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

type mockReviewRepository struct {
	mockCollection[entity.Review]
}

func (m *mockReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, productID, userID)
	review, _ := args.Get(0).(*entity.Review)

	return review, args.Error(1)
}

func (m *mockReviewRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *mockReviewRepository) Aggregate(ctx context.Context, productID uuid.UUID) (entity.RatingSummary, error) {
	args := m.Called(ctx, productID)
	summary, _ := args.Get(0).(entity.RatingSummary)

	return summary, args.Error(1)
}

type mockOrderRepository struct {
	mockCollection[entity.Order]
}

func (m *mockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]*entity.Order)

	return orders, args.Error(1)
}

func (m *mockOrderRepository) FindByTransactionID(ctx context.Context, txID string) (*entity.Order, error) {
	args := m.Called(ctx, txID)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *mockOrderRepository) HasUserOrderedProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, productID)

	return args.Bool(0), args.Error(1)
}

type mockMpesaRepository struct{ mock.Mock }

func (m *mockMpesaRepository) Create(ctx context.Context, tx *entity.MpesaTransaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *mockMpesaRepository) FindByMerchantRequestID(ctx context.Context, merchantRequestID string) (*entity.MpesaTransaction, error) {
	args := m.Called(ctx, merchantRequestID)
	tx, _ := args.Get(0).(*entity.MpesaTransaction)

	return tx, args.Error(1)
}

func (m *mockMpesaRepository) FindAll(ctx context.Context) ([]*entity.MpesaTransaction, error) {
	args := m.Called(ctx)
	txs, _ := args.Get(0).([]*entity.MpesaTransaction)

	return txs, args.Error(1)
}

// --- Service mocks ---

type mockHasher struct{ mock.Mock }

func (m *mockHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

type mockTokenService struct{ mock.Mock }

func (m *mockTokenService) Issue(userID uuid.UUID, role entity.Role) (string, error) {
	args := m.Called(userID, role)

	return args.String(0), args.Error(1)
}

func (m *mockTokenService) Verify(token string) (*service.Claims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *mockTokenService) Lifetime() time.Duration {
	args := m.Called()
	d, _ := args.Get(0).(time.Duration)

	return d
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, mail service.Mail) error {
	return m.Called(ctx, mail).Error(0)
}

type mockPaymentGateway struct{ mock.Mock }

func (m *mockPaymentGateway) Charge(ctx context.Context, req service.ChargeRequest) (*service.ChargeResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*service.ChargeResult)

	return result, args.Error(1)
}

type mockMobileMoneyGateway struct{ mock.Mock }

func (m *mockMobileMoneyGateway) STKPush(ctx context.Context, req service.STKPushRequest) (*service.STKPushResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*service.STKPushResult)

	return result, args.Error(1)
}

type mockImageStore struct{ mock.Mock }

func (m *mockImageStore) Put(ctx context.Context, namespace string, target service.UploadTarget, contentType string, data []byte) (*service.StoredObject, error) {
	args := m.Called(ctx, namespace, target, contentType, data)
	obj, _ := args.Get(0).(*service.StoredObject)

	return obj, args.Error(1)
}

func (m *mockImageStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockQRCodeService struct{ mock.Mock }

func (m *mockQRCodeService) Generate(content string) ([]byte, error) {
	args := m.Called(content)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}
