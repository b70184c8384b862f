package store

import jsoniter "github.com/json-iterator/go"

// Records keep the same json tags and field names as encoding/json would produce.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

func marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func unmarshal(b []byte, v any) error {
	return json.Unmarshal(b, v)
}
