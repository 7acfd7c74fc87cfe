package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is the Connect codec name; requests travel as application/json.
const CodecName = "json"

// jsonCodec marshals plain Go structs with encoding/json. It replaces the
// protojson codec, which only accepts generated protobuf messages.
type jsonCodec struct{}

func (jsonCodec) Name() string { return CodecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	return nil
}
