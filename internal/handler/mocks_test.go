package handler

import (
	"context"

	"caixa-be/internal/category"
	"caixa-be/internal/db"
	"caixa-be/internal/order"
	"caixa-be/internal/product"
	"caixa-be/internal/report"
	"caixa-be/internal/user"

	"github.com/stretchr/testify/mock"
)

type MockCategoryService struct{ mock.Mock }

func (m *MockCategoryService) List(ctx context.Context, userID uint) ([]category.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]category.Category), args.Error(1)
}

func (m *MockCategoryService) Get(ctx context.Context, userID uint, id string) (*category.Category, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, userID uint, name string) (*category.Category, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockCategoryService) Rename(ctx context.Context, userID uint, id, name string) (*category.Category, error) {
	args := m.Called(ctx, userID, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockCategoryService) Sales(ctx context.Context, userID uint) ([]category.Sales, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]category.Sales), args.Error(1)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) List(ctx context.Context, userID uint) ([]product.Product, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, userID uint, id string) (*product.Product, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, userID uint, in product.Input) (*product.Product, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, userID uint, id string, in product.Input) (*product.Product, error) {
	args := m.Called(ctx, userID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) ImageUploadURL(ctx context.Context, userID uint, id, contentType string) (*product.ImageUpload, error) {
	args := m.Called(ctx, userID, id, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.ImageUpload), args.Error(1)
}

func (m *MockProductService) Import(ctx context.Context, userID uint, products []product.Product) (*product.ImportResult, error) {
	args := m.Called(ctx, userID, products)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.ImportResult), args.Error(1)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) Checkout(ctx context.Context, userID uint, in order.CheckoutInput) (*order.Sale, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Sale), args.Error(1)
}

func (m *MockOrderService) Complete(ctx context.Context, userID uint, id string) (*order.Sale, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Sale), args.Error(1)
}

func (m *MockOrderService) Cancel(ctx context.Context, userID uint, id string) (*order.Sale, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Sale), args.Error(1)
}

func (m *MockOrderService) EditItems(ctx context.Context, userID uint, id string, items []order.CartItem) (*order.Sale, error) {
	args := m.Called(ctx, userID, id, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Sale), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, userID uint, id string) (*order.Sale, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Sale), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, userID uint, filter order.ListFilter) ([]order.Sale, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Sale), args.Error(1)
}

type MockNumberService struct{ mock.Mock }

func (m *MockNumberService) Next(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockNumberService) NextTx(ctx context.Context, q db.Querier, userID uint) (string, error) {
	args := m.Called(ctx, q, userID)
	return args.String(0), args.Error(1)
}

func (m *MockNumberService) Current(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type MockReportService struct{ mock.Mock }

func (m *MockReportService) Generate(ctx context.Context, userID uint) (*report.Report, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Report), args.Error(1)
}

func (m *MockReportService) Daily(ctx context.Context, userID uint) ([]report.DailySales, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.DailySales), args.Error(1)
}

func (m *MockReportService) Trend(ctx context.Context, userID uint, f report.TrendFilter) ([]report.TrendPoint, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.TrendPoint), args.Error(1)
}

func (m *MockReportService) Export(ctx context.Context, userID uint, format report.Format) (*report.ExportResult, error) {
	args := m.Called(ctx, userID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.ExportResult), args.Error(1)
}

func (m *MockReportService) Invalidate(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, in user.RegisterInput) (*user.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Session), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, in user.LoginInput) (*user.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Session), args.Error(1)
}

func (m *MockUserService) Me(ctx context.Context, userID uint) (*user.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}
