package category

import (
	"context"
	"errors"
	"strings"
	"testing"

	"caixa-be/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, userID uint) ([]Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Category), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, userID uint, id string) (*Category, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Category), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, c *Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) Rename(ctx context.Context, userID uint, id, name string) error {
	args := m.Called(ctx, userID, id, name)
	return args.Error(0)
}

func (m *MockRepository) Sales(ctx context.Context, userID uint) ([]Sales, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Sales), args.Error(1)
}

func (m *MockRepository) ApplySales(ctx context.Context, q db.Querier, userID uint, deltas []SalesDelta) error {
	args := m.Called(ctx, q, userID, deltas)
	return args.Error(0)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Tests ---

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		inv := new(MockInvalidator)
		svc := NewService(mockRepo, inv)

		mockRepo.On("Create", ctx, mock.MatchedBy(func(c *Category) bool {
			return c.Name == "Papelaria" && c.UserID == 7 && c.ID != ""
		})).Return(nil)
		inv.On("Invalidate", ctx, uint(7)).Return(nil)

		res, err := svc.Create(ctx, 7, "  Papelaria ")
		assert.NoError(t, err)
		assert.Equal(t, "Papelaria", res.Name)
		mockRepo.AssertExpectations(t)
		inv.AssertExpectations(t)
	})

	t.Run("Empty name", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)

		_, err := svc.Create(ctx, 7, "   ")
		assert.ErrorIs(t, err, ErrEmptyName)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Name too long", func(t *testing.T) {
		svc := NewService(new(MockRepository), nil)

		_, err := svc.Create(ctx, 7, strings.Repeat("a", maxNameLength+1))
		assert.ErrorIs(t, err, ErrNameTooLong)
	})

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockRepository)
		inv := new(MockInvalidator)
		svc := NewService(mockRepo, inv)

		mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("db error"))

		_, err := svc.Create(ctx, 7, "Bebidas")
		assert.Error(t, err)
		inv.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("Invalidation failure does not fail create", func(t *testing.T) {
		mockRepo := new(MockRepository)
		inv := new(MockInvalidator)
		svc := NewService(mockRepo, inv)

		mockRepo.On("Create", ctx, mock.Anything).Return(nil)
		inv.On("Invalidate", ctx, uint(7)).Return(errors.New("redis down"))

		_, err := svc.Create(ctx, 7, "Bebidas")
		assert.NoError(t, err)
	})
}

func TestService_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		inv := new(MockInvalidator)
		svc := NewService(mockRepo, inv)

		mockRepo.On("Rename", ctx, uint(7), "cat-1", "Livros").Return(nil)
		mockRepo.On("GetByID", ctx, uint(7), "cat-1").Return(&Category{ID: "cat-1", Name: "Livros"}, nil)
		inv.On("Invalidate", ctx, uint(7)).Return(nil)

		res, err := svc.Rename(ctx, 7, "cat-1", "Livros")
		assert.NoError(t, err)
		assert.Equal(t, "Livros", res.Name)
		inv.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)

		mockRepo.On("Rename", ctx, uint(7), "cat-9", "Livros").Return(ErrCategoryNotFound)

		_, err := svc.Rename(ctx, 7, "cat-9", "Livros")
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)

		expected := []Category{{ID: "cat-1", Name: "Papelaria"}}
		mockRepo.On("List", ctx, uint(7)).Return(expected, nil)

		res, err := svc.List(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, expected, res)
	})

	t.Run("Error", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)

		mockRepo.On("List", ctx, uint(7)).Return(nil, errors.New("db error"))

		_, err := svc.List(ctx, 7)
		assert.Error(t, err)
	})
}
