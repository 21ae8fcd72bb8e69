package service

import (
	"github.com/goccy/go-json"
)

// jsonCodec serializes the plain request and response structs of the wizard
// service. It replaces Connect's built-in "json" codec, which only handles
// protobuf messages.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal accepts an empty body as the zero request, so calls without
// arguments can be sent without a payload.
func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
