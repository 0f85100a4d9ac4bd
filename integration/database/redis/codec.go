package redis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Codec encodes model snapshots for storage and pub/sub.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var (
	// JSON encodes models with encoding/json. It is the default.
	JSON Codec = jsonCodec{}

	// CBOR encodes models as compact binary CBOR.
	CBOR Codec = cborCodec{}
)

// CodecByName returns the codec registered under name ("json" or "cbor").
// An empty name selects JSON.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSON, nil
	case "cbor":
		return CBOR, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type cborCodec struct{}

func (cborCodec) Name() string                       { return "cbor" }
func (cborCodec) Marshal(v any) ([]byte, error)      { return cbor.Marshal(v) }
func (cborCodec) Unmarshal(data []byte, v any) error { return cbor.Unmarshal(data, v) }

// envelope is what goes over the wire: the encoded model plus the origin that
// wrote it, so readers can skip their own writes.
type envelope struct {
	Origin  string `json:"origin"`
	Payload []byte `json:"payload"`
}

func encode[M any](codec Codec, origin string, v M) ([]byte, error) {
	payload, err := codec.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Origin: origin, Payload: payload})
}

func decode[M any](codec Codec, data []byte) (string, M, error) {
	var (
		env envelope
		v   M
	)
	if err := json.Unmarshal(data, &env); err != nil {
		return "", v, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := codec.Unmarshal(env.Payload, &v); err != nil {
		return env.Origin, v, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return env.Origin, v, nil
}
