package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nexocart/catalog-service/internal/domain"
	"github.com/nexocart/catalog-service/internal/event"
	"github.com/nexocart/catalog-service/internal/repository"
	apperrors "github.com/nexocart/catalog-service/pkg/errors"
	pkgkafka "github.com/nexocart/catalog-service/pkg/kafka"
)

// --- Mock Repository ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	args := m.Called(ctx, id, rating)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Helpers ---

func testProducer() (*event.Producer, *slog.Logger) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger), logger
}

func newTestService(repo *mockProductRepository) *ProductService {
	producer, logger := testProducer()
	return NewProductService(repo, producer, logger)
}

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }

// --- CreateProduct ---

func TestCreateProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Name == "Widget" && p.Price == int64(1999) && p.Currency == "USD" && p.Rating == 0
	})).Return(nil)

	product, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Name:     "Widget",
		Price:    1999,
		Currency: "usd",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, "USD", product.Currency)
	assert.Zero(t, product.Rating)
	repo.AssertExpectations(t)
}

func TestCreateProduct_EmptyName(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	_, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Price:    1999,
		Currency: "USD",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateProduct_NegativePrice(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	_, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Name:     "Widget",
		Price:    -1,
		Currency: "USD",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateProduct_InvalidCurrency(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	_, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Name:     "Widget",
		Price:    1999,
		Currency: "DOLLARS",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateProduct_DuplicateName(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	repo.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.AlreadyExists("product", "name", "Widget"))

	_, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Name:     "Widget",
		Price:    1999,
		Currency: "USD",
	})

	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	repo.AssertExpectations(t)
}

// --- GetProduct ---

func TestGetProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	expected := &domain.Product{ID: "prod-1", Name: "Widget", Rating: 4.5}
	repo.On("GetByID", mock.Anything, "prod-1").Return(expected, nil)

	product, err := svc.GetProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, expected, product)
	repo.AssertExpectations(t)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestGetProductByName_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	expected := &domain.Product{ID: "prod-1", Name: "Widget"}
	repo.On("GetByName", mock.Anything, "Widget").Return(expected, nil)

	product, err := svc.GetProductByName(context.Background(), "Widget")
	require.NoError(t, err)
	assert.Equal(t, "prod-1", product.ID)
	repo.AssertExpectations(t)
}

// --- ListProducts ---

func TestListProducts_Defaults(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	repo.On("List", mock.Anything, repository.ProductFilter{
		OrderBy:   domain.SortByRating,
		Direction: domain.DirectionAsc,
		Limit:     10,
	}).Return([]domain.Product{{ID: "prod-1"}}, 1, nil)

	products, total, err := svc.ListProducts(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, total)
	repo.AssertExpectations(t)
}

func TestListProducts_CapsLimit(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	repo.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.Limit == 100
	})).Return([]domain.Product{}, 0, nil)

	_, _, err := svc.ListProducts(context.Background(), repository.ProductFilter{Limit: 500})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListProducts_InvalidSortField(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	_, _, err := svc.ListProducts(context.Background(), repository.ProductFilter{OrderBy: "popularity"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "List")
}

func TestListProducts_InvalidDirection(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	_, _, err := svc.ListProducts(context.Background(), repository.ProductFilter{Direction: "sideways"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "List")
}

func TestListProducts_PassesFilters(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	filter := repository.ProductFilter{
		CategoryName: strPtr("audio"),
		ProductName:  strPtr("widget"),
		OrderBy:      domain.SortByPrice,
		Direction:    domain.DirectionDesc,
		Offset:       20,
		Limit:        10,
	}
	repo.On("List", mock.Anything, filter).Return([]domain.Product{}, 0, nil)

	_, _, err := svc.ListProducts(context.Background(), filter)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

// --- UpdateProduct ---

func TestUpdateProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	existing := &domain.Product{ID: "prod-1", Name: "Widget", Price: 1999, Currency: "USD"}
	repo.On("GetByID", mock.Anything, "prod-1").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Name == "Widget Pro" && p.Price == int64(2999)
	})).Return(nil)

	product, err := svc.UpdateProduct(context.Background(), "prod-1", &UpdateProductInput{
		Name:  strPtr("Widget Pro"),
		Price: int64Ptr(2999),
	})

	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", product.Name)
	assert.Equal(t, int64(2999), product.Price)
	repo.AssertExpectations(t)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.UpdateProduct(context.Background(), "missing", &UpdateProductInput{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "Update")
}

func TestUpdateProduct_EmptyName(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	existing := &domain.Product{ID: "prod-1", Name: "Widget"}
	repo.On("GetByID", mock.Anything, "prod-1").Return(existing, nil)

	_, err := svc.UpdateProduct(context.Background(), "prod-1", &UpdateProductInput{
		Name: strPtr(""),
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Update")
}

func TestUpdateProduct_NegativePrice(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	existing := &domain.Product{ID: "prod-1", Name: "Widget"}
	repo.On("GetByID", mock.Anything, "prod-1").Return(existing, nil)

	_, err := svc.UpdateProduct(context.Background(), "prod-1", &UpdateProductInput{
		Price: int64Ptr(-5),
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Update")
}

// --- DeleteProduct ---

func TestDeleteProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "prod-1").Return(&domain.Product{ID: "prod-1"}, nil)
	repo.On("Delete", mock.Anything, "prod-1").Return(nil)

	err := svc.DeleteProduct(context.Background(), "prod-1")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	err := svc.DeleteProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "Delete")
}
