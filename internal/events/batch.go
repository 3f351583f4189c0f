package events

import (
	"fmt"
	"time"

	"github.com/linkedin/goavro/v2"
)

// BatchCommittedSchema is the Avro schema of the batch event.
const BatchCommittedSchema = `{
  "type": "record",
  "name": "BatchCommitted",
  "namespace": "seedhouse.fulfillment",
  "fields": [
    {"name": "batch_id", "type": "string"},
    {"name": "batch_number", "type": "string"},
    {"name": "order_count", "type": "int"},
    {"name": "order_number_start", "type": "string"},
    {"name": "order_number_end", "type": "string"},
    {"name": "print_units", "type": "int"},
    {"name": "pull_units", "type": "int"},
    {"name": "committed_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
  ]
}`

// BatchCommitted tells downstream consumers a new packing batch exists.
type BatchCommitted struct {
	BatchID          string
	BatchNumber      string
	OrderCount       int
	OrderNumberStart string
	OrderNumberEnd   string
	PrintUnits       int
	PullUnits        int
	CommittedAt      time.Time
}

func (e BatchCommitted) native() map[string]interface{} {
	return map[string]interface{}{
		"batch_id":           e.BatchID,
		"batch_number":       e.BatchNumber,
		"order_count":        int32(e.OrderCount),
		"order_number_start": e.OrderNumberStart,
		"order_number_end":   e.OrderNumberEnd,
		"print_units":        int32(e.PrintUnits),
		"pull_units":         int32(e.PullUnits),
		"committed_at":       e.CommittedAt.UTC(),
	}
}

// Encoder turns events into Avro binary.
type Encoder struct {
	codec *goavro.Codec
}

func NewEncoder() (*Encoder, error) {
	codec, err := goavro.NewCodec(BatchCommittedSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to create avro codec: %w", err)
	}
	return &Encoder{codec: codec}, nil
}

func (e *Encoder) Encode(ev BatchCommitted) ([]byte, error) {
	binary, err := e.codec.BinaryFromNative(nil, ev.native())
	if err != nil {
		return nil, fmt.Errorf("failed to encode to avro binary: %w", err)
	}
	return binary, nil
}

// Decode is the inverse of Encode, for consumers and tests.
func (e *Encoder) Decode(payload []byte) (map[string]interface{}, error) {
	native, _, err := e.codec.NativeFromBinary(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode avro binary: %w", err)
	}
	m, ok := native.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected avro payload %T", native)
	}
	return m, nil
}
