package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
)

// Worker consumes notification tasks and sends them through a Mailer.
type Worker struct {
	server *asynq.Server
	mailer Mailer
}

// NewWorker creates a worker reading from Redis at addr.
func NewWorker(addr string, mailer Mailer) *Worker {
	server := asynq.NewServer(asynq.RedisClientOpt{Addr: addr}, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			QueueEmails: 10,
		},
	})
	return &Worker{server: server, mailer: mailer}
}

// Mux routes every task type to its handler.
func (w *Worker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskBookingRequested, w.handleBooking)
	mux.HandleFunc(TaskBookingAccepted, w.handleBooking)
	mux.HandleFunc(TaskBookingDeclined, w.handleBooking)
	mux.HandleFunc(TaskBookingCancelled, w.handleBooking)
	mux.HandleFunc(TaskReviewPosted, w.handleReviewPosted)
	return mux
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	if err := w.server.Start(w.Mux()); err != nil {
		return fmt.Errorf("start asynq server: %w", err)
	}
	log.Printf("[notify] worker started")
	return nil
}

// Shutdown stops the worker, waiting for in-flight tasks.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleBooking(ctx context.Context, t *asynq.Task) error {
	var p BookingPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if err := w.mailer.Send(ctx, p.Envelope); err != nil {
		log.Printf("[notify][ERROR] %s send failed: %v", t.Type(), err)
		return err
	}
	log.Printf("[notify] %s sent -> booking=%s to=%s", t.Type(), p.BookingID, p.Email)
	return nil
}

func (w *Worker) handleReviewPosted(ctx context.Context, t *asynq.Task) error {
	var p ReviewPostedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if err := w.mailer.Send(ctx, p.Envelope); err != nil {
		log.Printf("[notify][ERROR] ReviewPosted send failed: %v", err)
		return err
	}
	log.Printf("[notify] ReviewPosted sent -> listing=%s rating=%d", p.ListingID, p.Rating)
	return nil
}
