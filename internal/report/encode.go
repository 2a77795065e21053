package report

import (
	"encoding/json"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteMsgpack writes the report as a msgpack payload for downstream
// tooling.
func WriteMsgpack(w io.Writer, rep *Report) error {
	return msgpack.NewEncoder(w).Encode(rep)
}

// ReadMsgpack decodes a payload written by WriteMsgpack.
func ReadMsgpack(r io.Reader, out *Report) error {
	return msgpack.NewDecoder(r).Decode(out)
}
