package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parcel-logistics/models/parcel"
	"parcel-logistics/models/user"

	"github.com/google/uuid"
)

const (
	QueueName              = "message_jobs"
	JobParcelStatusMessage = "parcel_status_message"
)

// Job is one outbound customer message. A separate worker owns delivery.
type Job struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	ParcelID   uuid.UUID `json:"parcelId"`
	TrackingID string    `json:"trackingId"`
	Phone      string    `json:"phone"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Queue accepts notification jobs.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
}

// Publisher is the part of RabbitmqClient the queue needs.
type Publisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

type RabbitQueue struct {
	publisher Publisher
	queue     string
}

// NewRabbitQueue declares the message_jobs queue and returns a Queue writing to it.
func NewRabbitQueue(client *RabbitmqClient) (*RabbitQueue, error) {
	if err := client.CreateQueue(QueueName); err != nil {
		return nil, fmt.Errorf("declare %s: %w", QueueName, err)
	}
	return &RabbitQueue{publisher: client, queue: QueueName}, nil
}

func NewQueueWithPublisher(p Publisher, queue string) *RabbitQueue {
	return &RabbitQueue{publisher: p, queue: queue}
}

func (q *RabbitQueue) Enqueue(ctx context.Context, job Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return q.publisher.Publish(ctx, q.queue, body)
}

type Noop struct{}

func (Noop) Enqueue(context.Context, Job) error { return nil }

// ParcelStatusJob builds the customer message for a parcel whose status was set.
// ok is false when the parcel has notifications disabled or the customer has no phone.
func ParcelStatusJob(p *parcel.Parcel, customer *user.User, message string) (Job, bool) {
	if !p.WhatsappNotif || customer == nil {
		return Job{}, false
	}
	phone := customer.WhatsappNumber()
	if phone == "" {
		return Job{}, false
	}
	return Job{
		Type:       JobParcelStatusMessage,
		ParcelID:   p.ID,
		TrackingID: p.TrackingID,
		Phone:      phone,
		Status:     string(p.Status),
		Message:    fmt.Sprintf("Parcel %s: %s", p.TrackingID, message),
	}, true
}
