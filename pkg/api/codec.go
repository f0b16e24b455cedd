package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec encodes ledger messages as plain JSON. It replaces Connect's
// default protobuf-JSON codec, which only accepts generated proto messages.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

// Name returns "json" so requests use the application/json content type.
func (JSONCodec) Name() string {
	return "json"
}

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
