package protocol

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
)

// MaxDatagramSize is the largest encoded message accepted on the peer
// transport: the maximum UDP payload over IPv4.
const MaxDatagramSize = 65507

// encMode encodes with Core Deterministic Encoding (sorted map keys,
// smallest integers) so equal messages always produce equal bytes.
var encMode cbor.EncMode

// decMode ignores unknown fields so newer peers can add payload fields.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("protocol: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType:   reflect.TypeOf(map[string]any(nil)),
		MaxArrayElements: 4096,
	}.DecMode()
	if err != nil {
		panic("protocol: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes a message for the peer transport.
func Marshal(m Message) ([]byte, error) {
	data, err := encMode.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.Kind, err)
	}
	if len(data) > MaxDatagramSize {
		return nil, domain.ErrMessageTooLarge.WithDetails(fmt.Sprintf("%s is %d bytes", m.Kind, len(data)))
	}
	return data, nil
}

// Unmarshal decodes and validates a peer message.
func Unmarshal(data []byte) (Message, error) {
	var m Message
	if err := decMode.Unmarshal(data, &m); err != nil {
		return Message{}, domain.ErrMalformedMessage.WithCause(err)
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// MarshalJSON encodes a message for the admin channel.
func MarshalJSON(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.Kind, err)
	}
	return data, nil
}

// UnmarshalJSON decodes and validates an admin channel message.
func UnmarshalJSON(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, domain.ErrMalformedMessage.WithCause(err)
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}
