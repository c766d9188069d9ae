package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
	"github.com/ldhng/retail-backoffice/internal/port"
)

// Client implements port.Gateway against the external REST backend. It never
// retries: every failure is surfaced once and acted on by the caller.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger

	mu    sync.RWMutex
	token string
}

func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// SetToken installs the session's bearer token; an empty string clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.bearer(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		msg := e.Message
		if msg == "" {
			msg = e.Error
		}
		c.log.Debug("backend error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return &port.GatewayError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// ---- inventory ----

func (c *Client) FetchInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	if err := c.do(ctx, http.MethodGet, "/api/inventory", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateInventoryItem(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	var out domain.InventoryItem
	err := c.do(ctx, http.MethodPost, "/api/inventory", item, &out)
	return out, err
}

func (c *Client) UpdateInventoryItem(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	var out domain.InventoryItem
	err := c.do(ctx, http.MethodPut, "/api/inventory/"+item.ID, item, &out)
	return out, err
}

func (c *Client) DeleteInventoryItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/inventory/"+id, nil, nil)
}

// ---- discounts ----

func (c *Client) FetchDiscounts(ctx context.Context) ([]domain.Discount, error) {
	var ds []domain.Discount
	if err := c.do(ctx, http.MethodGet, "/api/discounts", nil, &ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func (c *Client) CreateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error) {
	var out domain.Discount
	err := c.do(ctx, http.MethodPost, "/api/discounts", d, &out)
	return out, err
}

func (c *Client) UpdateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error) {
	var out domain.Discount
	err := c.do(ctx, http.MethodPut, "/api/discounts/"+d.ID, d, &out)
	return out, err
}

func (c *Client) DeleteDiscount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/discounts/"+id, nil, nil)
}

// ---- orders ----

type createOrderReq struct {
	Customer        domain.Customer    `json:"customer"`
	Items           []domain.OrderLine `json:"items"`
	DiscountPercent *decimal.Decimal   `json:"discount_percent"`
	CreatedBy       string             `json:"created_by"`
}

func (c *Client) FetchOrders(ctx context.Context) ([]domain.Order, error) {
	var os []domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &os); err != nil {
		return nil, err
	}
	return os, nil
}

func (c *Client) CreateOrder(ctx context.Context, in port.CreateOrderInput) (domain.Order, error) {
	req := createOrderReq{
		Customer:        in.Customer,
		Items:           in.Lines,
		DiscountPercent: in.DiscountPercent,
		CreatedBy:       in.CreatedBy,
	}
	var out domain.Order
	err := c.do(ctx, http.MethodPost, "/api/orders", req, &out)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	body := map[string]domain.OrderStatus{"status": status}
	var out domain.Order
	err := c.do(ctx, http.MethodPut, "/api/orders/"+id+"/status", body, &out)
	return out, err
}

// ---- users ----

func (c *Client) FetchUsers(ctx context.Context) ([]domain.User, error) {
	var us []domain.User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &us); err != nil {
		return nil, err
	}
	return us, nil
}

// ---- inquiries ----

func (c *Client) FetchInquiries(ctx context.Context) ([]domain.Inquiry, error) {
	var is []domain.Inquiry
	if err := c.do(ctx, http.MethodGet, "/api/inquiries", nil, &is); err != nil {
		return nil, err
	}
	return is, nil
}

func (c *Client) CreateInquiry(ctx context.Context, inq domain.Inquiry) (domain.Inquiry, error) {
	var out domain.Inquiry
	err := c.do(ctx, http.MethodPost, "/api/inquiries", inq, &out)
	return out, err
}

func (c *Client) UpdateInquiryStatus(ctx context.Context, id string, status domain.InquiryStatus) (domain.Inquiry, error) {
	body := map[string]domain.InquiryStatus{"status": status}
	var out domain.Inquiry
	err := c.do(ctx, http.MethodPut, "/api/inquiries/"+id+"/status", body, &out)
	return out, err
}

// ---- side effects & bulk ----

func (c *Client) SendEmail(ctx context.Context, email domain.Email) error {
	return c.do(ctx, http.MethodPost, "/api/emails", email, nil)
}

func (c *Client) CreateBackup(ctx context.Context) (port.BackupResult, error) {
	var resp struct {
		Message string `json:"message"`
		File    string `json:"file"` // base64
	}
	if err := c.do(ctx, http.MethodPost, "/api/backup", nil, &resp); err != nil {
		return port.BackupResult{}, err
	}
	file, err := base64.StdEncoding.DecodeString(resp.File)
	if err != nil {
		return port.BackupResult{}, fmt.Errorf("decode backup file: %w", err)
	}
	return port.BackupResult{Message: resp.Message, File: file}, nil
}

func (c *Client) RestoreBackup(ctx context.Context, file []byte) (port.RestoreResult, error) {
	body := map[string]string{"file": base64.StdEncoding.EncodeToString(file)}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/restore", body, &resp); err != nil {
		return port.RestoreResult{}, err
	}
	return port.RestoreResult{Success: resp.Success, Message: resp.Message}, nil
}

func (c *Client) PingActivity(ctx context.Context, userID string) error {
	body := map[string]string{"user_id": userID}
	return c.do(ctx, http.MethodPost, "/api/activity", body, nil)
}
