package service

import (
	"context"
	"sync"
	"time"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
	"github.com/ldhng/retail-backoffice/internal/port"
)

// mockGateway is a programmable in-memory Gateway shared by the service
// tests.
type mockGateway struct {
	mu sync.Mutex

	token string

	inventory []domain.InventoryItem
	discounts []domain.Discount
	orders    []domain.Order
	users     []domain.User
	inquiries []domain.Inquiry

	fetchInventoryErr error
	createOrderErr    error
	createOrder       domain.Order
	orderInputs       []port.CreateOrderInput

	updateItemResult domain.InventoryItem
	updateItemErr    error

	sendEmailErr error
	sentEmails   []domain.Email

	restoreResult port.RestoreResult
	restoreErr    error

	pings int
}

func (m *mockGateway) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *mockGateway) FetchInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchInventoryErr != nil {
		return nil, m.fetchInventoryErr
	}
	return append([]domain.InventoryItem(nil), m.inventory...), nil
}

func (m *mockGateway) CreateInventoryItem(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	return item, nil
}

func (m *mockGateway) UpdateInventoryItem(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateItemErr != nil {
		return domain.InventoryItem{}, m.updateItemErr
	}
	return m.updateItemResult, nil
}

func (m *mockGateway) DeleteInventoryItem(ctx context.Context, id string) error { return nil }

func (m *mockGateway) FetchDiscounts(ctx context.Context) ([]domain.Discount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Discount(nil), m.discounts...), nil
}

func (m *mockGateway) CreateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error) {
	return d, nil
}

func (m *mockGateway) UpdateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error) {
	return d, nil
}

func (m *mockGateway) DeleteDiscount(ctx context.Context, id string) error { return nil }

func (m *mockGateway) FetchOrders(ctx context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Order(nil), m.orders...), nil
}

func (m *mockGateway) CreateOrder(ctx context.Context, in port.CreateOrderInput) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orderInputs = append(m.orderInputs, in)
	if m.createOrderErr != nil {
		return domain.Order{}, m.createOrderErr
	}
	return m.createOrder, nil
}

func (m *mockGateway) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			o.Status = status
			return o, nil
		}
	}
	return domain.Order{ID: id, Status: status}, nil
}

func (m *mockGateway) FetchUsers(ctx context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.User(nil), m.users...), nil
}

func (m *mockGateway) FetchInquiries(ctx context.Context) ([]domain.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Inquiry(nil), m.inquiries...), nil
}

func (m *mockGateway) CreateInquiry(ctx context.Context, inq domain.Inquiry) (domain.Inquiry, error) {
	if inq.ID == "" {
		inq.ID = "inq-1"
	}
	return inq, nil
}

func (m *mockGateway) UpdateInquiryStatus(ctx context.Context, id string, status domain.InquiryStatus) (domain.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, i := range m.inquiries {
		if i.ID == id {
			i.Status = status
			return i, nil
		}
	}
	return domain.Inquiry{ID: id, Status: status}, nil
}

func (m *mockGateway) SendEmail(ctx context.Context, email domain.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendEmailErr != nil {
		return m.sendEmailErr
	}
	m.sentEmails = append(m.sentEmails, email)
	return nil
}

func (m *mockGateway) CreateBackup(ctx context.Context) (port.BackupResult, error) {
	return port.BackupResult{Message: "ok", File: []byte("backup")}, nil
}

func (m *mockGateway) RestoreBackup(ctx context.Context, file []byte) (port.RestoreResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.restoreErr != nil {
		return port.RestoreResult{}, m.restoreErr
	}
	return m.restoreResult, nil
}

func (m *mockGateway) PingActivity(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pings++
	return nil
}

func (m *mockGateway) currentToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *mockGateway) pingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pings
}

func (m *mockGateway) emails() []domain.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Email(nil), m.sentEmails...)
}

// mockSessionCache tracks invalidated user ids in memory.
type mockSessionCache struct {
	mu          sync.Mutex
	invalidated map[string]bool
	marks       int
}

func newMockSessionCache() *mockSessionCache {
	return &mockSessionCache{invalidated: make(map[string]bool)}
}

func (m *mockSessionCache) IsInvalidated(ctx context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidated[userID], nil
}

func (m *mockSessionCache) Invalidate(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated[userID] = true
	return nil
}

func (m *mockSessionCache) Reinstate(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.invalidated, userID)
	return nil
}

func (m *mockSessionCache) MarkActive(ctx context.Context, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marks++
	return nil
}
