// Package booking decides who hears about a change to a service booking.
//
// Classify is pure: it reads two snapshots and returns a Decision. The event
// handlers execute the decision. Admin edits are flagged by the admin app
// through modified_by_admin; admins are never told about their own edits,
// while customer cancellations and customer edits are always surfaced to
// them.
package booking

import (
	"fmt"

	"github.com/albapepper/booking-notifier/internal/domain"
)

// Kind is what the classifier found.
type Kind int

const (
	KindNone Kind = iota
	KindStatusChange
	KindDetailEdit
)

func (k Kind) String() string {
	switch k {
	case KindStatusChange:
		return "status_change"
	case KindDetailEdit:
		return "detail_edit"
	default:
		return "none"
	}
}

// Decision is the outcome for one update event. At most one customer
// message and one admin broadcast are described.
type Decision struct {
	Kind Kind

	NotifyUser bool
	UserTitle  string
	UserBody   string
	// Category tags the customer's in-app record.
	Category domain.Category

	NotifyAdmins  bool
	AdminTitle    string
	AdminBody     string
	AdminCategory domain.Category

	// ConsumeAdminMarker is set when modified_by_admin must be reset.
	ConsumeAdminMarker bool
}

// Classify compares before and after. customerName is used in admin-facing
// text only.
func Classify(before, after domain.ServiceRecord, customerName string) Decision {
	adminModified := after.ModifiedByAdmin
	svc := after.ServiceType.Label()

	d := Decision{ConsumeAdminMarker: adminModified}

	switch {
	case before.Status != after.Status:
		d.Kind = KindStatusChange
		d.NotifyUser = true
		status := domain.ParseServiceStatus(after.Status)
		if adminModified {
			d.UserTitle, d.UserBody = adminStatusMessage(status, svc, after.Status)
		} else {
			d.UserTitle, d.UserBody = userStatusMessage(status, svc, after.Status)
			if status == domain.StatusCanceled {
				d.NotifyAdmins = true
				d.AdminTitle = "Booking Cancelled by User 🚫"
				d.AdminBody = fmt.Sprintf("%s cancelled their %s booking", customerName, svc)
			}
		}

	case detailsChanged(before, after):
		d.Kind = KindDetailEdit
		d.NotifyUser = true
		if adminModified {
			d.UserTitle = "Booking Updated by Admin 🔄"
			d.UserBody = fmt.Sprintf("Your %s booking has been updated by admin.", svc)
		} else {
			d.UserTitle = "Booking Updated 📝"
			d.UserBody = fmt.Sprintf("Your %s booking has been updated.", svc)
			d.NotifyAdmins = true
			d.AdminTitle = "Booking Modified by User 📝"
			d.AdminBody = fmt.Sprintf("%s modified their %s booking", customerName, svc)
		}

	default:
		return d
	}

	d.Category = domain.CategoryService
	if adminModified {
		d.Category = domain.CategoryAdminModified
	}
	if d.NotifyAdmins {
		d.AdminCategory = domain.CategoryBookingModified
		if domain.ParseServiceStatus(after.Status) == domain.StatusCanceled {
			d.AdminCategory = domain.CategoryBookingCanceled
		}
	}
	return d
}

// detailsChanged compares the fields a customer or admin edits in place.
// Times are compared to the second.
func detailsChanged(before, after domain.ServiceRecord) bool {
	return before.ServiceDate.Unix() != after.ServiceDate.Unix() ||
		before.Description != after.Description ||
		before.Cost != after.Cost
}

func adminStatusMessage(s domain.ServiceStatus, svc, raw string) (string, string) {
	switch s {
	case domain.StatusConfirmed:
		return "Booking Confirmed ✅", fmt.Sprintf("Your %s booking has been confirmed by admin.", svc)
	case domain.StatusCompleted:
		return "Service Completed ✅", fmt.Sprintf("Your %s has been completed. Ready to collect!", svc)
	case domain.StatusCanceled:
		return "Booking Canceled ❌", fmt.Sprintf("Your %s booking has been canceled by admin. Please contact us.", svc)
	default:
		return "Booking Updated 🔄", fmt.Sprintf("Your %s booking status: %s", svc, raw)
	}
}

func userStatusMessage(s domain.ServiceStatus, svc, raw string) (string, string) {
	switch s {
	case domain.StatusConfirmed:
		return "Booking Confirmed ✅", fmt.Sprintf("Your %s booking has been confirmed.", svc)
	case domain.StatusCompleted:
		return "Service Completed ✅", fmt.Sprintf("Your %s has been completed. Ready to collect!", svc)
	case domain.StatusCanceled:
		return "Booking Cancelled ❌", fmt.Sprintf("Your %s booking has been cancelled.", svc)
	default:
		return "Service Update", fmt.Sprintf("%s status: %s", svc, raw)
	}
}
