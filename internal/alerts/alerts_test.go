package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hibiken/asynq"

	"github.com/sudo-init-do/gearhub/internal/config"
)

func notice() BookingNotice {
	return BookingNotice{
		BookingID:   "b-1",
		ListingID:   "l-1",
		ListingName: "Burton Custom",
		RenterID:    "u-renter",
		OwnerID:     "u-owner",
		Email:       "owner@example.com",
		StartDate:   "2025-01-10",
		EndDate:     "2025-01-12",
		Total:       135,
	}
}

func TestBookingTaskConstructors(t *testing.T) {
	tests := []struct {
		build func(BookingNotice, string) (*asynq.Task, error)
		want  string
	}{
		{NewBookingRequestedTask, TaskBookingRequested},
		{NewBookingAcceptedTask, TaskBookingAccepted},
		{NewBookingDeclinedTask, TaskBookingDeclined},
		{NewBookingCancelledTask, TaskBookingCancelled},
	}
	for _, tt := range tests {
		task, err := tt.build(notice(), "https://gearhub.example/")
		if err != nil {
			t.Fatalf("%s: %v", tt.want, err)
		}
		if task.Type() != tt.want {
			t.Fatalf("expected type %s, got %s", tt.want, task.Type())
		}
		var p BookingPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			t.Fatalf("%s: decode payload: %v", tt.want, err)
		}
		if p.BookingID != "b-1" || p.Envelope.To != "owner@example.com" || p.Total != 135 {
			t.Fatalf("%s: unexpected payload %+v", tt.want, p)
		}
		if !strings.Contains(p.Envelope.Subject, "Burton Custom") {
			t.Fatalf("%s: expected listing name in subject, got %q", tt.want, p.Envelope.Subject)
		}
	}

	task, _ := NewBookingRequestedTask(notice(), "https://gearhub.example/")
	var p BookingPayload
	json.Unmarshal(task.Payload(), &p)
	if !strings.Contains(p.Envelope.Body, "https://gearhub.example/bookings/b-1") {
		t.Fatalf("expected booking link in body, got %q", p.Envelope.Body)
	}
}

func TestTaskRequiresRecipient(t *testing.T) {
	n := notice()
	n.Email = ""
	if _, err := NewBookingAcceptedTask(n, ""); err == nil {
		t.Fatal("expected missing recipient to fail")
	}
	if _, err := NewReviewPostedTask("b", "l", "Tent", "", 5); err == nil {
		t.Fatal("expected missing recipient to fail")
	}
}

type recordingMailer struct {
	sent []EmailEnvelope
	err  error
}

func (m *recordingMailer) Send(_ context.Context, env EmailEnvelope) error {
	m.sent = append(m.sent, env)
	return m.err
}

func TestWorkerSendsMail(t *testing.T) {
	m := &recordingMailer{}
	w := &Worker{mailer: m}
	mux := w.Mux()

	task, _ := NewBookingDeclinedTask(notice(), "")
	if err := mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process: %v", err)
	}
	review, _ := NewReviewPostedTask("b-1", "l-1", "Burton Custom", "owner@example.com", 4)
	if err := mux.ProcessTask(context.Background(), review); err != nil {
		t.Fatalf("process review: %v", err)
	}
	if len(m.sent) != 2 || m.sent[1].Subject != "Burton Custom got a 4-star review" {
		t.Fatalf("unexpected mail %+v", m.sent)
	}

	bad := asynq.NewTask(TaskBookingAccepted, []byte("{"))
	if err := mux.ProcessTask(context.Background(), bad); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for bad payload, got %v", err)
	}
}

type recordingEnqueuer struct {
	tasks []*asynq.Task
}

func (e *recordingEnqueuer) Enqueue(_ context.Context, task *asynq.Task) error {
	e.tasks = append(e.tasks, task)
	return nil
}

func TestSend(t *testing.T) {
	enq := &recordingEnqueuer{}
	Send(context.Background(), enq, mustAcceptedTask(t), nil)
	Send(context.Background(), enq, nil, errors.New("build failed"))
	Send(context.Background(), nil, mustAcceptedTask(t), nil)
	if len(enq.tasks) != 1 {
		t.Fatalf("expected 1 queued task, got %d", len(enq.tasks))
	}
}

func mustAcceptedTask(t *testing.T) *asynq.Task {
	t.Helper()
	task, err := NewBookingAcceptedTask(notice(), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return task
}

func TestPlunkSend(t *testing.T) {
	var got plunkSendBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("expected bearer key, got %q", r.Header.Get("Authorization"))
		}
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewPlunk(config.PlunkConfig{APIKey: "key", From: "hi@gearhub.example", APIURL: srv.URL})
	err := p.Send(context.Background(), EmailEnvelope{To: "a@b.c", Subject: "s", Body: "b"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.To != "a@b.c" || got.From != "hi@gearhub.example" {
		t.Fatalf("unexpected body %+v", got)
	}
}

func TestPlunkSendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewPlunk(config.PlunkConfig{APIKey: "key", APIURL: srv.URL})
	err := p.Send(context.Background(), EmailEnvelope{To: "a@b.c"})
	if err == nil || !strings.Contains(err.Error(), "status=401") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestNewMailerFallsBackToLog(t *testing.T) {
	if _, ok := NewMailer(config.PlunkConfig{}).(LogMailer); !ok {
		t.Fatal("expected LogMailer without an API key")
	}
	if _, ok := NewMailer(config.PlunkConfig{APIKey: "k"}).(*Plunk); !ok {
		t.Fatal("expected Plunk with an API key")
	}
}
