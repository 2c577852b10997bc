package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/albapepper/booking-notifier/internal/domain"
)

func baseRecord() domain.ServiceRecord {
	return domain.ServiceRecord{
		ID:          "r1",
		UserID:      "u1",
		ServiceType: domain.ServiceGearbox,
		ServiceDate: time.Date(2026, 5, 4, 14, 30, 0, 0, time.UTC),
		Status:      domain.StatusConfirmedText,
		Cost:        250,
		Description: "Oil change",
	}
}

func TestClassify_StatusChanges(t *testing.T) {
	cases := []struct {
		name         string
		to           string
		admin        bool
		title        string
		body         string
		notifyAdmins bool
		category     domain.Category
	}{
		{"admin confirms", "Booking Confirmed", true, "Booking Confirmed ✅", "Your Gearbox booking has been confirmed by admin.", false, domain.CategoryAdminModified},
		{"admin completes", "Completed", true, "Service Completed ✅", "Your Gearbox has been completed. Ready to collect!", false, domain.CategoryAdminModified},
		{"admin cancels", "Booking Canceled", true, "Booking Canceled ❌", "Your Gearbox booking has been canceled by admin. Please contact us.", false, domain.CategoryAdminModified},
		{"admin unknown status", "Awaiting Parts", true, "Booking Updated 🔄", "Your Gearbox booking status: Awaiting Parts", false, domain.CategoryAdminModified},
		{"user completes", "Completed", false, "Service Completed ✅", "Your Gearbox has been completed. Ready to collect!", false, domain.CategoryService},
		{"user cancels", "Booking Canceled", false, "Booking Cancelled ❌", "Your Gearbox booking has been cancelled.", true, domain.CategoryService},
		{"user unknown status", "Rescheduled", false, "Service Update", "Gearbox status: Rescheduled", false, domain.CategoryService},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := baseRecord()
			if tc.to == domain.StatusConfirmedText {
				before.Status = "Pending"
			}
			after := before
			after.Status = tc.to
			after.ModifiedByAdmin = tc.admin

			d := Classify(before, after, "Dana")

			assert.Equal(t, KindStatusChange, d.Kind)
			assert.True(t, d.NotifyUser)
			assert.Equal(t, tc.title, d.UserTitle)
			assert.Equal(t, tc.body, d.UserBody)
			assert.Equal(t, tc.notifyAdmins, d.NotifyAdmins)
			assert.Equal(t, tc.category, d.Category)
			assert.Equal(t, tc.admin, d.ConsumeAdminMarker)
		})
	}
}

func TestClassify_UserCancellationNamesCustomer(t *testing.T) {
	before := baseRecord()
	after := before
	after.Status = domain.StatusCanceledText

	d := Classify(before, after, "Dana Scully")

	assert.True(t, d.NotifyAdmins)
	assert.Equal(t, "Booking Cancelled by User 🚫", d.AdminTitle)
	assert.Equal(t, "Dana Scully cancelled their Gearbox booking", d.AdminBody)
	assert.Equal(t, domain.CategoryBookingCanceled, d.AdminCategory)
	assert.False(t, d.ConsumeAdminMarker)
}

func TestClassify_DetailEdits(t *testing.T) {
	edits := map[string]func(r *domain.ServiceRecord){
		"date":        func(r *domain.ServiceRecord) { r.ServiceDate = r.ServiceDate.Add(time.Hour) },
		"description": func(r *domain.ServiceRecord) { r.Description = "Oil and filter" },
		"cost":        func(r *domain.ServiceRecord) { r.Cost = 275 },
	}

	for name, edit := range edits {
		t.Run("user "+name, func(t *testing.T) {
			before := baseRecord()
			after := before
			edit(&after)

			d := Classify(before, after, "Dana")

			assert.Equal(t, KindDetailEdit, d.Kind)
			assert.Equal(t, "Booking Updated 📝", d.UserTitle)
			assert.True(t, d.NotifyAdmins)
			assert.Equal(t, "Booking Modified by User 📝", d.AdminTitle)
			assert.Equal(t, "Dana modified their Gearbox booking", d.AdminBody)
			assert.Equal(t, domain.CategoryBookingModified, d.AdminCategory)
			assert.Equal(t, domain.CategoryService, d.Category)
		})

		t.Run("admin "+name, func(t *testing.T) {
			before := baseRecord()
			after := before
			edit(&after)
			after.ModifiedByAdmin = true

			d := Classify(before, after, "Dana")

			assert.Equal(t, KindDetailEdit, d.Kind)
			assert.True(t, d.NotifyUser)
			assert.Equal(t, "Booking Updated by Admin 🔄", d.UserTitle)
			assert.Equal(t, "Your Gearbox booking has been updated by admin.", d.UserBody)
			assert.False(t, d.NotifyAdmins)
			assert.Equal(t, domain.CategoryAdminModified, d.Category)
			assert.True(t, d.ConsumeAdminMarker)
		})
	}
}

func TestClassify_NoTrackedChangeIsNoop(t *testing.T) {
	before := baseRecord()
	after := before
	after.ReminderSent = true
	after.VehicleMake = "BMW"
	after.ServiceDate = after.ServiceDate.Add(400 * time.Millisecond)

	d := Classify(before, after, "Dana")

	assert.Equal(t, KindNone, d.Kind)
	assert.False(t, d.NotifyUser)
	assert.False(t, d.NotifyAdmins)
	assert.Empty(t, d.UserTitle)
}

func TestClassify_AdminNoopStillConsumesMarker(t *testing.T) {
	before := baseRecord()
	after := before
	after.ModifiedByAdmin = true

	d := Classify(before, after, "Dana")

	assert.Equal(t, KindNone, d.Kind)
	assert.False(t, d.NotifyUser)
	assert.True(t, d.ConsumeAdminMarker)
}

func TestClassify_AdminNeverNotifiesAdmins(t *testing.T) {
	statuses := []string{"Booking Confirmed", "Completed", "Booking Canceled", "cancelled", "Weird"}
	for _, s := range statuses {
		before := baseRecord()
		before.Status = "Pending"
		after := before
		after.Status = s
		after.ModifiedByAdmin = true
		after.Cost = 999

		d := Classify(before, after, "Dana")
		assert.False(t, d.NotifyAdmins, s)
		assert.True(t, d.ConsumeAdminMarker, s)
	}
}

func TestClassify_NonCanonicalStatusIsGeneric(t *testing.T) {
	for _, s := range []string{"cancelled", "canceled", "confirmed", "completed", "BOOKING CANCELED", "Booking Cancelled"} {
		t.Run(s, func(t *testing.T) {
			before := baseRecord()
			before.Status = "Pending"
			after := before
			after.Status = s

			d := Classify(before, after, "Dana")

			assert.Equal(t, KindStatusChange, d.Kind)
			assert.True(t, d.NotifyUser)
			assert.Equal(t, "Service Update", d.UserTitle)
			assert.Equal(t, "Gearbox status: "+s, d.UserBody)
			assert.False(t, d.NotifyAdmins)
			assert.Empty(t, d.AdminCategory)
		})
	}
}

func TestClassify_StatusChangeWinsOverDetailEdit(t *testing.T) {
	before := baseRecord()
	after := before
	after.Status = domain.StatusCompletedText
	after.Cost = 300

	d := Classify(before, after, "Dana")

	assert.Equal(t, KindStatusChange, d.Kind)
	assert.Equal(t, "Service Completed ✅", d.UserTitle)
	assert.False(t, d.NotifyAdmins)
}

func TestClassify_UnknownServiceTypeUsesGenericLabel(t *testing.T) {
	before := baseRecord()
	before.ServiceType = "paint_protection"
	after := before
	after.Description = "Full front"

	d := Classify(before, after, "Dana")
	assert.Equal(t, "Dana modified their Service booking", d.AdminBody)
}
