package notification

import (
	"context"
	"encoding/json"
	"testing"

	"parcel-logistics/models/parcel"
	"parcel-logistics/models/user"
)

type fakePublisher struct {
	queue  string
	bodies [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, queueName string, body []byte) error {
	f.queue = queueName
	f.bodies = append(f.bodies, body)
	return nil
}

func TestEnqueueWritesJSONJob(t *testing.T) {
	fp := &fakePublisher{}
	q := NewQueueWithPublisher(fp, QueueName)

	if err := q.Enqueue(context.Background(), Job{Type: JobParcelStatusMessage, TrackingID: "T-1"}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if fp.queue != QueueName || len(fp.bodies) != 1 {
		t.Fatalf("unexpected publish: queue=%q count=%d", fp.queue, len(fp.bodies))
	}

	var job Job
	if err := json.Unmarshal(fp.bodies[0], &job); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if job.ID.String() == "00000000-0000-0000-0000-000000000000" || job.CreatedAt.IsZero() {
		t.Fatalf("id and createdAt should be filled, got %+v", job)
	}
}

func TestParcelStatusJob(t *testing.T) {
	customer := &user.User{CountryCode: "+237", Phone: "690000000"}

	tests := []struct {
		name   string
		notify bool
		cust   *user.User
		wantOK bool
	}{
		{"notifications enabled", true, customer, true},
		{"notifications disabled", false, customer, false},
		{"missing customer", true, nil, false},
		{"customer without phone", true, &user.User{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &parcel.Parcel{TrackingID: "ACME-CM-260101-001", Status: parcel.StatusShipped, WhatsappNotif: tt.notify}
			job, ok := ParcelStatusJob(p, tt.cust, "Parcel has been shipped")
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (job.Type != JobParcelStatusMessage || job.Phone == "") {
				t.Fatalf("unexpected job %+v", job)
			}
		})
	}
}
