package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/booking-notifier/internal/booking"
	"github.com/albapepper/booking-notifier/internal/domain"
	"github.com/albapepper/booking-notifier/internal/store"
)

// Pusher sends push notifications. Implemented by notify.Dispatcher.
type Pusher interface {
	SendToUser(ctx context.Context, userID, title, body string, data map[string]string) bool
	SendToAdmins(ctx context.Context, title, body string, data map[string]string) []string
}

// Writer appends in-app records. Implemented by notify.Inbox.
type Writer interface {
	Write(ctx context.Context, n domain.Notification) (domain.Notification, error)
	WriteEach(ctx context.Context, userIDs []string, n domain.Notification) int
}

// Records is the store surface the handlers touch.
type Records interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	ClearModifiedByAdmin(ctx context.Context, id string) error
}

// Handlers holds one method per watched collection and operation. Each
// method recovers its own panics and never returns an error.
type Handlers struct {
	records Records
	push    Pusher
	inbox   Writer
	loc     *time.Location
	logger  *slog.Logger
}

func NewHandlers(records Records, push Pusher, inbox Writer, loc *time.Location, logger *slog.Logger) *Handlers {
	if loc == nil {
		loc = time.UTC
	}
	return &Handlers{records: records, push: push, inbox: inbox, loc: loc, logger: logger}
}

func (h *Handlers) guard(handler, id string) {
	if r := recover(); r != nil {
		h.logger.Error("Handler panicked", "handler", handler, "id", id, "panic", fmt.Sprint(r))
	}
}

func (h *Handlers) write(ctx context.Context, n domain.Notification) {
	if _, err := h.inbox.Write(ctx, n); err != nil {
		h.logger.Warn("In-app write failed", "user_id", n.UserID, "related_id", n.RelatedID, "error", err)
	}
}

// shortID is the order reference customers see.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// --------------------------------------------------------------------------
// Orders
// --------------------------------------------------------------------------

// OrderCreated confirms the order to its owner and announces it to admins.
// Admins get a push only, no in-app record.
func (h *Handlers) OrderCreated(ctx context.Context, id string, o domain.Order) {
	defer h.guard("order_created", id)
	h.logger.Info("Order created", "order_id", id)

	ref := shortID(id)
	const title = "Order Confirmed! 🎉"

	if o.UserID != "" {
		h.push.SendToUser(ctx, o.UserID, title,
			fmt.Sprintf("Your order #%s has been confirmed. Total: $%.2f", ref, o.TotalAmount),
			map[string]string{"type": domain.PushOrder, "orderId": id})
	}

	customer := o.CustomerName
	if customer == "" {
		customer = "Guest"
	}
	h.push.SendToAdmins(ctx, "New Order Received 📦",
		fmt.Sprintf("Order #%s - $%.2f from %s", ref, o.TotalAmount, customer),
		map[string]string{"type": domain.PushAdminOrder, "orderId": id})

	if o.UserID != "" {
		h.write(ctx, domain.Notification{
			UserID:    o.UserID,
			Title:     title,
			Message:   fmt.Sprintf("Your order #%s has been confirmed.", ref),
			Category:  domain.CategoryOrder,
			RelatedID: id,
		})
	}
}

// OrderUpdated tells the owner about a status move. Unchanged status is a
// no-op.
func (h *Handlers) OrderUpdated(ctx context.Context, id string, before, after domain.Order) {
	defer h.guard("order_updated", id)
	if before.Status == after.Status {
		return
	}
	h.logger.Info("Order status changed", "order_id", id, "from", before.Status, "to", after.Status)

	if after.UserID == "" {
		return
	}
	title, body := orderStatusMessage(after.Status, shortID(id))

	h.push.SendToUser(ctx, after.UserID, title, body, map[string]string{
		"type":    domain.PushOrderUpdate,
		"orderId": id,
		"status":  string(after.Status),
	})
	h.write(ctx, domain.Notification{
		UserID:    after.UserID,
		Title:     title,
		Message:   body,
		Category:  domain.CategoryOrder,
		RelatedID: id,
	})
}

func orderStatusMessage(s domain.OrderStatus, ref string) (string, string) {
	switch s {
	case domain.OrderProcessing:
		return "Order Processing 🔄", fmt.Sprintf("Your order #%s is now being processed.", ref)
	case domain.OrderShipped:
		return "Order Shipped 🚚", fmt.Sprintf("Your order #%s has been shipped!", ref)
	case domain.OrderDelivered:
		return "Order Delivered ✅", fmt.Sprintf("Your order #%s has been delivered. Thank you!", ref)
	case domain.OrderCancelled:
		return "Order Cancelled ❌", fmt.Sprintf("Your order #%s has been cancelled.", ref)
	default:
		return "Order Update", fmt.Sprintf("Your order #%s status: %s", ref, s)
	}
}

// --------------------------------------------------------------------------
// Service records
// --------------------------------------------------------------------------

// ServiceRecordCreated confirms a new booking to its owner, when there is
// one, and always tells the admins, each of whom also gets an in-app record.
func (h *Handlers) ServiceRecordCreated(ctx context.Context, id string, r domain.ServiceRecord) {
	defer h.guard("service_record_created", id)
	h.logger.Info("Service record created", "record_id", id)

	svc := r.ServiceType.Label()
	date, clock := booking.FormatAppointment(r.ServiceDate, h.loc)
	when := date + " at " + clock
	const title = "Booking Confirmed! 🔧"

	if r.UserID != "" {
		h.push.SendToUser(ctx, r.UserID, title,
			fmt.Sprintf("Your %s booking for %s has been confirmed.", svc, when),
			map[string]string{"type": domain.PushService, "recordId": id})
		h.write(ctx, domain.Notification{
			UserID:    r.UserID,
			Title:     title,
			Message:   fmt.Sprintf("Your %s booking has been confirmed.", svc),
			Category:  domain.CategoryService,
			RelatedID: id,
		})
	}

	customer := r.CustomerName
	if customer == "" {
		customer = "Customer"
	}
	const adminTitle = "New Service Booking 🔧"
	adminBody := fmt.Sprintf("%s booking from %s on %s", svc, customer, when)
	admins := h.push.SendToAdmins(ctx, adminTitle, adminBody,
		map[string]string{"type": domain.PushAdminService, "recordId": id})
	h.inbox.WriteEach(ctx, admins, domain.Notification{
		Title:     adminTitle,
		Message:   adminBody,
		Category:  domain.CategoryNewBooking,
		RelatedID: id,
	})
}

// ServiceRecordUpdated classifies the change, delivers what the decision
// asks for, then consumes the admin marker.
func (h *Handlers) ServiceRecordUpdated(ctx context.Context, id string, before, after domain.ServiceRecord) {
	defer h.guard("service_record_updated", id)

	d := booking.Classify(before, after, h.customerName(ctx, after))
	h.logger.Info("Service record updated",
		"record_id", id,
		"kind", d.Kind.String(),
		"from", before.Status,
		"to", after.Status,
		"admin", after.ModifiedByAdmin)

	if d.NotifyUser && after.UserID != "" {
		h.push.SendToUser(ctx, after.UserID, d.UserTitle, d.UserBody, map[string]string{
			"type":     domain.PushServiceUpdate,
			"recordId": id,
			"status":   after.Status,
		})
		h.write(ctx, domain.Notification{
			UserID:    after.UserID,
			Title:     d.UserTitle,
			Message:   d.UserBody,
			Category:  d.Category,
			RelatedID: id,
		})
	}

	if d.NotifyAdmins {
		admins := h.push.SendToAdmins(ctx, d.AdminTitle, d.AdminBody, map[string]string{
			"type":     domain.PushAdminBookingUpdate,
			"recordId": id,
		})
		h.inbox.WriteEach(ctx, admins, domain.Notification{
			Title:     d.AdminTitle,
			Message:   d.AdminBody,
			Category:  d.AdminCategory,
			RelatedID: id,
		})
	}

	if d.ConsumeAdminMarker {
		if err := h.records.ClearModifiedByAdmin(ctx, id); err != nil {
			h.logger.Warn("Failed to reset admin marker", "record_id", id, "error", err)
		}
	}
}

// customerName prefers the owner's account name, then the name typed on the
// booking. Lookup failures fall through to "Customer".
func (h *Handlers) customerName(ctx context.Context, r domain.ServiceRecord) string {
	if r.UserID != "" {
		u, err := h.records.GetUser(ctx, r.UserID)
		switch {
		case err == nil && u.Name != "":
			return u.Name
		case err != nil && !errors.Is(err, store.ErrNotFound):
			h.logger.Warn("Customer name lookup failed", "user_id", r.UserID, "error", err)
		}
	}
	if r.CustomerName != "" {
		return r.CustomerName
	}
	return "Customer"
}
