package validator

import (
	"io"
	"testing"
	"time"

	"rentcar/pkg/logger"
	"rentcar/pkg/model"
)

func newTestValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{Output: io.Discard}))
}

func validBooking() *model.Booking {
	return &model.Booking{
		UserID:    "64f1a2b3c4d5e6f7a8b9c0d1",
		CarID:     "64f1a2b3c4d5e6f7a8b9c0d2",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-02",
		StartTime: "10:00",
		EndTime:   "10:00",
		Status:    model.BookingPending,
	}
}

func TestValidateNilBooking(t *testing.T) {
	if err := newTestValidator().Validate(nil); err == nil {
		t.Fatal("expected an error for a nil booking")
	}
}

func TestValidateBooking(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *model.Booking)
		ok     bool
	}{
		{"valid overnight rental", func(b *model.Booking) {}, true},
		{"valid same-day rental", func(b *model.Booking) {
			b.EndDate = b.StartDate
			b.EndTime = "14:30"
		}, true},
		{"valid with driver", func(b *model.Booking) {
			b.NeedDriver = true
			b.DriverContact = "+15550102030"
		}, true},
		{"missing user id", func(b *model.Booking) { b.UserID = "" }, false},
		{"malformed user id", func(b *model.Booking) { b.UserID = "abc" }, false},
		{"missing car id", func(b *model.Booking) { b.CarID = "" }, false},
		{"slash date format", func(b *model.Booking) { b.StartDate = "2026/09/01" }, false},
		{"twelve hour clock", func(b *model.Booking) { b.EndTime = "2:00 PM" }, false},
		{"impossible date", func(b *model.Booking) { b.StartDate = "2026-02-30" }, false},
		{"end equals start", func(b *model.Booking) {
			b.EndDate = b.StartDate
			b.EndTime = b.StartTime
		}, false},
		{"end before start", func(b *model.Booking) {
			b.EndDate = "2026-08-31"
		}, false},
		{"driver without contact", func(b *model.Booking) { b.NeedDriver = true }, false},
		{"unknown status", func(b *model.Booking) { b.Status = "reserved" }, false},
		{"negative amount", func(b *model.Booking) { b.TotalAmount = -10 }, false},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			tt.mutate(booking)
			err := v.Validate(booking)
			if tt.ok && err != nil {
				t.Errorf("expected booking to be valid, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected booking to be rejected")
			}
		})
	}
}

func TestValidateStatusUpdate(t *testing.T) {
	v := newTestValidator()

	for _, status := range []string{"pending", "confirmed", "cancelled", "completed"} {
		if err := v.ValidateStatusUpdate(&model.BookingStatusUpdate{Status: status}); err != nil {
			t.Errorf("expected status %q to be valid, got %v", status, err)
		}
	}
	for _, status := range []string{"", "parked", "CONFIRMED"} {
		if err := v.ValidateStatusUpdate(&model.BookingStatusUpdate{Status: status}); err == nil {
			t.Errorf("expected status %q to be rejected", status)
		}
	}
}

func TestRentalSpan(t *testing.T) {
	booking := validBooking()
	booking.StartDate = "2026-09-01"
	booking.StartTime = "10:30"
	booking.EndDate = "2026-09-03"
	booking.EndTime = "08:15"

	start, end, err := RentalSpan(booking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantStart := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 9, 3, 8, 15, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, start)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("expected end %v, got %v", wantEnd, end)
	}
}
