package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
)

// Entity keys for request sequencing. One key per collection.
const (
	KeyInventory = "inventory"
	KeyDiscounts = "discounts"
	KeyOrders    = "orders"
	KeyUsers     = "users"
	KeyInquiries = "inquiries"
)

// Ticket orders a mutation against other mutations of the same collection.
// Take it before the network call; the store refuses the commit if a ticket
// issued later has already committed, or if the session was reset meanwhile.
type Ticket struct {
	key string
	seq uint64
	gen uint64
}

// Store is the single session-scoped container for all mutable domain state.
// It is passed explicitly to every consumer; there are no package-level
// singletons. Reads return copies.
type Store struct {
	mu sync.Mutex

	generation uint64
	issued     map[string]uint64
	committed  map[string]uint64

	session   *domain.Session
	inventory []domain.InventoryItem
	discounts []domain.Discount
	orders    []domain.Order
	users     []domain.User
	inquiries []domain.Inquiry

	cart          domain.Cart
	notifications []domain.Notification
	emails        []domain.Email
}

func New() *Store {
	return &Store{
		issued:    make(map[string]uint64),
		committed: make(map[string]uint64),
	}
}

// Ticket issues the next sequence number for a collection.
func (s *Store) Ticket(key string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[key]++
	return Ticket{key: key, seq: s.issued[key], gen: s.generation}
}

// admit reports whether the ticket may still commit, and records it if so.
// Caller holds the lock.
func (s *Store) admit(t Ticket) bool {
	if t.gen != s.generation || t.seq <= s.committed[t.key] {
		return false
	}
	s.committed[t.key] = t.seq
	return true
}

// Reset clears all session state. Late results from in-flight calls of the
// previous session fail their ticket check and are dropped.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.issued = make(map[string]uint64)
	s.committed = make(map[string]uint64)
	s.session = nil
	s.inventory = nil
	s.discounts = nil
	s.orders = nil
	s.users = nil
	s.inquiries = nil
	s.cart.Clear()
	s.notifications = nil
	s.emails = nil
}

// ---- session ----

func (s *Store) SetSession(sess domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &sess
}

func (s *Store) Session() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Session{}, false
	}
	return *s.session, true
}

// ---- ticketed collection writes ----

func (s *Store) SetInventory(t Ticket, items []domain.InventoryItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(t) {
		return false
	}
	s.inventory = append([]domain.InventoryItem(nil), items...)
	return true
}

func (s *Store) UpsertInventoryItem(t Ticket, item domain.InventoryItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(t) {
		return false
	}
	for i := range s.inventory {
		if s.inventory[i].ID == item.ID {
			s.inventory[i] = item
			return true
		}
	}
	s.inventory = append(s.inventory, item)
	return true
}

func (s *Store) RemoveInventoryItem(t Ticket, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(t) {
		return false
	}
	for i := range s.inventory {
		if s.inventory[i].ID == id {
			s.inventory = append(s.inventory[:i], s.inventory[i+1:]...)
			break
		}
	}
	// a deleted item can no longer back a cart line
	s.cart.Remove(id)
	return true
}

func (s *Store) SetDiscounts(t Ticket, ds []domain.Discount) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(t) {
		return false
	}
	s.discounts = append([]domain.Discount(nil), ds...)
	return true
}

func (s *Store) UpsertDiscount(t Ticket, d domain.Discount) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(t) {
		return false
	}
	for i := range s.discounts {
		if s.discounts[i].ID == d.ID {
			s.discounts[i] = d
			return true
		}
	}
	s.discounts = append(s.discounts, d)
	return true
}

func (s *Store) RemoveDiscount(t Ticket, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(t) {
		return false
	}
	for i := range s.discounts {
		if s.discounts[i].ID == id {
			s.discounts = append(s.discounts[:i], s.discounts[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store) SetOrders(t Ticket, os []domain.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(t) {
		return false
	}
	s.orders = append([]domain.Order(nil), os...)
	return true
}

func (s *Store) AppendOrder(t Ticket, o domain.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(t) {
		return false
	}
	s.orders = append(s.orders, o)
	return true
}

func (s *Store) ReplaceOrder(t Ticket, o domain.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(t) {
		return false
	}
	for i := range s.orders {
		if s.orders[i].ID == o.ID {
			s.orders[i] = o
			return true
		}
	}
	s.orders = append(s.orders, o)
	return true
}

func (s *Store) SetUsers(t Ticket, us []domain.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(t) {
		return false
	}
	s.users = append([]domain.User(nil), us...)
	return true
}

func (s *Store) SetInquiries(t Ticket, is []domain.Inquiry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(t) {
		return false
	}
	s.inquiries = append([]domain.Inquiry(nil), is...)
	return true
}

func (s *Store) UpsertInquiry(t Ticket, inq domain.Inquiry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(t) {
		return false
	}
	for i := range s.inquiries {
		if s.inquiries[i].ID == inq.ID {
			s.inquiries[i] = inq
			return true
		}
	}
	s.inquiries = append(s.inquiries, inq)
	return true
}

// ---- reads ----

func (s *Store) Inventory() []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.InventoryItem(nil), s.inventory...)
}

func (s *Store) InventoryItem(id string) (domain.InventoryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.inventory {
		if it.ID == id {
			return it, true
		}
	}
	return domain.InventoryItem{}, false
}

func (s *Store) Discounts() []domain.Discount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Discount(nil), s.discounts...)
}

func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Order(nil), s.orders...)
}

func (s *Store) Order(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (s *Store) Users() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.User(nil), s.users...)
}

func (s *Store) Inquiries() []domain.Inquiry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Inquiry(nil), s.inquiries...)
}

// ---- cart (local-only, no tickets) ----

// AddToCart adds qty of the identified item, bounded by the stock the store
// currently knows. Unknown items are rejected.
func (s *Store) AddToCart(itemID string, qty int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.inventory {
		if it.ID == itemID {
			return s.cart.Add(it, qty)
		}
	}
	return false
}

func (s *Store) UpdateCartQuantity(itemID string, newQty int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	stock := 0
	for _, it := range s.inventory {
		if it.ID == itemID {
			stock = it.Quantity
			break
		}
	}
	return s.cart.UpdateQuantity(itemID, newQty, stock)
}

func (s *Store) InCart(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.cart.Lines {
		if l.Item.ID == itemID {
			return true
		}
	}
	return false
}

func (s *Store) RemoveFromCart(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Remove(itemID)
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

func (s *Store) CartSnapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// ---- notifications & emails (local-only) ----

// PushNotification prepends an unread notification; the list is newest-first.
func (s *Store) PushNotification(message string) domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := domain.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		CreatedAt: time.Now(),
	}
	s.notifications = append([]domain.Notification{n}, s.notifications...)
	return n
}

func (s *Store) Notifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.notifications...)
}

// MarkAllNotificationsRead flips every entry in place; nothing is removed.
func (s *Store) MarkAllNotificationsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
}

func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, no := range s.notifications {
		if !no.Read {
			n++
		}
	}
	return n
}

func (s *Store) AppendEmail(e domain.Email) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = append(s.emails, e)
}

func (s *Store) Emails() []domain.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Email(nil), s.emails...)
}

// Snapshot is the read-only view handed to the presentation layer.
type Snapshot struct {
	Inventory     []domain.InventoryItem `json:"inventory"`
	Discounts     []domain.Discount      `json:"discounts"`
	Orders        []domain.Order         `json:"orders"`
	Users         []domain.User          `json:"users"`
	Inquiries     []domain.Inquiry       `json:"inquiries"`
	Cart          domain.Cart            `json:"cart"`
	Notifications []domain.Notification  `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Inventory:     append([]domain.InventoryItem(nil), s.inventory...),
		Discounts:     append([]domain.Discount(nil), s.discounts...),
		Orders:        append([]domain.Order(nil), s.orders...),
		Users:         append([]domain.User(nil), s.users...),
		Inquiries:     append([]domain.Inquiry(nil), s.inquiries...),
		Cart:          s.cart.Snapshot(),
		Notifications: append([]domain.Notification(nil), s.notifications...),
	}
	for _, n := range s.notifications {
		if !n.Read {
			snap.UnreadCount++
		}
	}
	return snap
}
