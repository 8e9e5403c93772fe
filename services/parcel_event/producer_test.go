package parcel_event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"parcel-logistics/models/parcel"
	"parcel-logistics/models/role"
	"parcel-logistics/models/transaction"

	"github.com/google/uuid"
	skafka "github.com/segmentio/kafka-go"
)

// fakeWriter records messages written.
type fakeWriter struct {
	msgs []skafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublishParcelCreated(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaProducerWithWriter(fw)

	pc := &parcel.Parcel{TrackingID: "ACME-CM-260101-001", Status: parcel.StatusReceivedInWarehouse}
	pc.ID = uuid.New()
	ev := ParcelCreated(pc, transaction.PaymentPending, uuid.New(), role.Operator)

	if err := p.Publish(context.Background(), pc.TrackingID, ev); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fw.msgs))
	}
	if string(fw.msgs[0].Key) != pc.TrackingID {
		t.Fatalf("key = %q, want %q", fw.msgs[0].Key, pc.TrackingID)
	}

	var decoded Event
	if err := json.Unmarshal(fw.msgs[0].Value, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != TypeParcelCreated || decoded.ParcelID != pc.ID || decoded.ActorRole != role.Operator {
		t.Fatalf("unexpected event %+v", decoded)
	}
}

func TestPublishWrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := NewKafkaProducerWithWriter(&fakeWriter{err: boom})
	err := p.Publish(context.Background(), "k", map[string]string{"a": "b"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped writer error, got %v", err)
	}
}
