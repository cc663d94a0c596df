// Package rpc defines the Connect API surface: request/response messages,
// procedure names, and handler constructors. Messages are plain structs
// serialized with a JSON codec, so clients talk regular Connect-over-JSON
// without a schema toolchain. Monetary fields use decimal strings on the
// wire.
package rpc

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// codec serializes API messages as JSON. Connect routes requests with
// Content-Type application/json to the codec registered under "json".
type codec struct{}

func (codec) Name() string { return "json" }

func (codec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (codec) Unmarshal(data []byte, message any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, message)
}

// handlerOptions prepends the JSON codec to caller-supplied options so
// every mounted procedure speaks the same wire format.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(codec{})}, opts...)
}
