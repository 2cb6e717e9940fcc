package devserver

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"tiffinbox/internal/models"
)

// UserRow is a registered account.
type UserRow struct {
	ID        string `gorm:"primary_key"`
	Name      string
	Email     string
	Phone     string `gorm:"unique_index"`
	Password  string
	Role      string
	Address   string
	CreatedAt time.Time
}

// OrderRow is a submitted order. Items travel as a JSON column; the stub
// has no reason to normalize them into their own table.
type OrderRow struct {
	ID             string `gorm:"primary_key"`
	Phone          string `gorm:"index"`
	CustomerName   string
	Address        string
	ItemsJSON      string `gorm:"type:text"`
	TotalAmount    float64
	PaymentMethod  string
	Notes          string
	DeliveryDate   string
	DeliveryTime   string
	IsToday        bool
	Status         string
	RiderJSON      string `gorm:"type:text"`
	// Keyless payloads store "" here, which a unique index would reject on
	// the second insert; dedup happens through OrderByIdempotencyKey instead.
	IdempotencyKey string `gorm:"index"`
	CreatedAt      time.Time
}

// Storage wraps the sqlite database.
type Storage struct {
	db *gorm.DB
}

// OpenStorage opens (and migrates) the sqlite database at path. Use
// ":memory:" for tests.
func OpenStorage(path string) (*Storage, error) {
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.AutoMigrate(&UserRow{}, &OrderRow{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// CreateUser inserts an account. Duplicate phones fail.
func (s *Storage) CreateUser(row *UserRow) error {
	var existing UserRow
	err := s.db.Where("phone = ?", row.Phone).First(&existing).Error
	if err == nil {
		return fmt.Errorf("phone already registered")
	}
	if !gorm.IsRecordNotFoundError(err) {
		return err
	}
	return s.db.Create(row).Error
}

// UserByPhone looks up an account; nil when absent.
func (s *Storage) UserByPhone(phone string) (*UserRow, error) {
	var row UserRow
	err := s.db.Where("phone = ?", phone).First(&row).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateOrder inserts an order row.
func (s *Storage) CreateOrder(row *OrderRow) error {
	return s.db.Create(row).Error
}

// OrderByID fetches one order; nil when absent.
func (s *Storage) OrderByID(id string) (*OrderRow, error) {
	var row OrderRow
	err := s.db.Where("id = ?", id).First(&row).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// OrderByIdempotencyKey finds an earlier submission of the same checkout
// attempt; nil when this is a fresh attempt.
func (s *Storage) OrderByIdempotencyKey(key string) (*OrderRow, error) {
	if key == "" {
		return nil, nil
	}
	var row OrderRow
	err := s.db.Where("idempotency_key = ?", key).First(&row).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// OrdersByPhone lists a customer's orders, newest first.
func (s *Storage) OrdersByPhone(phone string) ([]OrderRow, error) {
	var rows []OrderRow
	err := s.db.Where("phone = ?", phone).Order("created_at desc").Find(&rows).Error
	return rows, err
}

// UpdateOrderStatus sets the status and optional rider of an order.
func (s *Storage) UpdateOrderStatus(id, status, riderJSON string) error {
	updates := map[string]interface{}{"status": status}
	if riderJSON != "" {
		updates["rider_json"] = riderJSON
	}
	return s.db.Model(&OrderRow{}).Where("id = ?", id).Updates(updates).Error
}

// Order converts a row back into the wire shape.
func (r *OrderRow) Order() (*models.Order, error) {
	var items []models.LineItem
	if r.ItemsJSON != "" {
		if err := json.Unmarshal([]byte(r.ItemsJSON), &items); err != nil {
			return nil, fmt.Errorf("decoding stored items: %w", err)
		}
	}
	var rider *models.Rider
	if r.RiderJSON != "" {
		rider = &models.Rider{}
		if err := json.Unmarshal([]byte(r.RiderJSON), rider); err != nil {
			return nil, fmt.Errorf("decoding stored rider: %w", err)
		}
	}

	return &models.Order{
		ID:    r.ID,
		Items: items,
		Customer: models.Customer{
			Name:    r.CustomerName,
			Phone:   r.Phone,
			Address: r.Address,
		},
		TotalAmount:   r.TotalAmount,
		PaymentMethod: r.PaymentMethod,
		Notes:         r.Notes,
		DeliveryInfo: models.DeliveryInfo{
			Date:    r.DeliveryDate,
			Time:    r.DeliveryTime,
			IsToday: r.IsToday,
		},
		Status:    models.OrderStatus(r.Status),
		Rider:     rider,
		CreatedAt: r.CreatedAt,
	}, nil
}
