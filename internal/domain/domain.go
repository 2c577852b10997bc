// Package domain holds the records this service observes and writes: users,
// orders, service bookings, vehicles and in-app notifications. JSON tags
// follow the column names so a row_to_json snapshot decodes directly.
package domain

import (
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Entities
// --------------------------------------------------------------------------

// User is a customer or staff account. PushToken is empty when the device
// has not registered or the token was cleared after a delivery failure.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PushToken string `json:"push_token"`
	IsAdmin   bool   `json:"is_admin"`
}

// Order is a shop order. UserID is empty for guest checkouts.
type Order struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	CustomerName string      `json:"customer_name"`
	TotalAmount  float64     `json:"total_amount"`
	Status       OrderStatus `json:"status"`
}

// ServiceRecord is a workshop booking.
type ServiceRecord struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	CustomerName    string      `json:"customer_name"`
	ServiceType     ServiceType `json:"service_type"`
	ServiceDate     time.Time   `json:"service_date"`
	Status          string      `json:"status"`
	ModifiedByAdmin bool        `json:"modified_by_admin"`
	ReminderSent    bool        `json:"reminder_sent"`
	Cost            float64     `json:"cost"`
	Description     string      `json:"description"`
	VehicleID       string      `json:"vehicle_id"`
	VehicleMake     string      `json:"vehicle_make"`
	VehicleModel    string      `json:"vehicle_model"`
}

// Vehicle is only read to enrich reminder text.
type Vehicle struct {
	ID    string `json:"id"`
	Make  string `json:"make"`
	Model string `json:"model"`
}

// Label returns "make model" with blanks trimmed.
func (v Vehicle) Label() string {
	return strings.TrimSpace(v.Make + " " + v.Model)
}

// Notification is an append-only in-app record.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Category  Category  `json:"category"`
	RelatedID string    `json:"related_id"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// --------------------------------------------------------------------------
// Enumerations
// --------------------------------------------------------------------------

// Category tags an in-app notification for client-side grouping.
type Category string

const (
	CategoryOrder           Category = "order"
	CategoryService         Category = "service"
	CategoryAdminModified   Category = "adminModified"
	CategoryBookingCanceled Category = "bookingCanceled"
	CategoryBookingModified Category = "bookingModified"
	CategoryNewBooking      Category = "newBooking"
)

// Push metadata "type" values understood by the mobile clients.
const (
	PushOrder              = "order"
	PushAdminOrder         = "admin_order"
	PushOrderUpdate        = "order_update"
	PushService            = "service"
	PushAdminService       = "admin_service"
	PushServiceUpdate      = "service_update"
	PushAdminBookingUpdate = "admin_booking_update"
	PushReminder           = "reminder"
)

// OrderStatus is the lifecycle of an order.
type OrderStatus string

const (
	OrderCreated    OrderStatus = "created"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are expected.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// ServiceType is the kind of workshop job. Unknown values are kept verbatim.
type ServiceType string

const (
	ServiceCarPlay  ServiceType = "carplay"
	ServiceGearbox  ServiceType = "gearbox"
	ServiceXHPRemap ServiceType = "xhp_remap"
	ServiceRegular  ServiceType = "regular"
	ServiceOther    ServiceType = "other"
)

// Label is the short name used in booking confirmations and updates.
func (t ServiceType) Label() string {
	switch t {
	case ServiceCarPlay:
		return "CarPlay"
	case ServiceGearbox:
		return "Gearbox"
	case ServiceXHPRemap:
		return "XHP Remap"
	case ServiceRegular:
		return "Regular Service"
	default:
		return "Service"
	}
}

// FullName is the long name used in reminders.
func (t ServiceType) FullName() string {
	switch t {
	case ServiceCarPlay:
		return "CarPlay Installation"
	case ServiceGearbox:
		return "Gearbox Service"
	case ServiceXHPRemap:
		return "BMW XHP Gearbox Remap"
	case ServiceRegular:
		return "Regular Service"
	case "":
		return "Service"
	default:
		return string(t)
	}
}
