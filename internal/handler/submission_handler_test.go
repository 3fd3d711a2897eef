package handler

import (
	"net/http"
	"testing"

	"github.com/lenscraft/internal/db"
)

func TestCreateBookingStartsAsNew(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/bookings", "", map[string]any{
		"name":           "Jane",
		"email":          "jane@x.com",
		"event_type":     "Wedding",
		"preferred_date": nil,
		"message":        "June wedding",
		"status":         "replied",
		"admin_notes":    "forged",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	booking := decodeJSON[db.BookingSubmission](t, rec)
	if booking.Status != db.SubmissionStatusNew {
		t.Fatalf("expected status new, got %q", booking.Status)
	}
	if booking.AdminNotes != nil || booking.PreferredDate != nil {
		t.Fatalf("expected admin-only and empty fields to be null, got %+v", booking)
	}

	list := s.do(t, http.MethodGet, "/api/admin/resources/bookings?status=new", testAdminEmail, nil)
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", list.Code)
	}
	if items := decodeJSON[[]db.BookingSubmission](t, list); len(items) != 1 || items[0].Name != "Jane" {
		t.Fatalf("expected the booking in the new list, got %+v", items)
	}
}

func TestCreateBookingRejectsInvalidEmail(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/bookings", "", map[string]any{"name": "Jane", "email": "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeJSON[errorResponse](t, rec)
	if msgs := resp.Details.FieldErrors["email"]; len(msgs) == 0 {
		t.Fatalf("expected email error, got %v", resp.Details.FieldErrors)
	}
}

func TestCreateContactRequiresMessage(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/contacts", "", map[string]any{"name": "Sam", "email": "sam@example.com", "message": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeJSON[errorResponse](t, rec)
	if msgs := resp.Details.FieldErrors["message"]; len(msgs) != 1 || msgs[0] != "Message is required" {
		t.Fatalf("expected message error, got %v", resp.Details.FieldErrors)
	}

	ok := s.do(t, http.MethodPost, "/api/contacts", "", map[string]any{"name": "Sam", "email": "sam@example.com", "message": "Hello"})
	if ok.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", ok.Code)
	}
}

func TestUpdateSubmissionStatusAndNotes(t *testing.T) {
	s := newTestServer(t)

	created := decodeJSON[db.ContactSubmission](t, s.do(t, http.MethodPost, "/api/contacts", "", map[string]any{
		"name":    "Sam",
		"email":   "sam@example.com",
		"subject": "Prints",
		"message": "Do you sell prints?",
	}))

	rec := s.do(t, http.MethodPut, "/api/admin/resources/contacts/"+created.ID, testAdminEmail, map[string]any{
		"status":      "replied",
		"admin_notes": "Sent price list",
		"message":     "tampered",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeJSON[db.ContactSubmission](t, rec)
	if updated.Status != db.SubmissionStatusReplied || updated.AdminNotes == nil || *updated.AdminNotes != "Sent price list" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.Message != "Do you sell prints?" {
		t.Fatalf("submitted content must not change, got %q", updated.Message)
	}

	cleared := decodeJSON[db.ContactSubmission](t, s.do(t, http.MethodPut, "/api/admin/resources/contacts/"+created.ID, testAdminEmail, map[string]any{
		"admin_notes": nil,
	}))
	if cleared.AdminNotes != nil || cleared.Status != db.SubmissionStatusReplied {
		t.Fatalf("expected notes cleared and status kept, got %+v", cleared)
	}

	bad := s.do(t, http.MethodPut, "/api/admin/resources/contacts/"+created.ID, testAdminEmail, map[string]any{"status": "lost"})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", bad.Code)
	}
}

func TestListSubmissionsRejectsUnknownStatusFilter(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/admin/resources/bookings?status=pending", testAdminEmail, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if _, ok := decodeJSON[errorResponse](t, rec).Details.FieldErrors["status"]; !ok {
		t.Fatalf("expected status field error")
	}
}
