package pydia

import (
	"encoding/json"
	"fmt"

	"github.com/vk/dgrun/internal/params"
)

// request is one line sent to the bridge script.
type request struct {
	Op        string  `json:"op"`
	Name      string  `json:"name,omitempty"`
	Workdir   string  `json:"workdir,omitempty"`
	Verbose   *string `json:"verbose,omitempty"`
	Params    []param `json:"params,omitempty"`
	ProbeType string  `json:"probe_type,omitempty"`
	GridFile  string  `json:"grid_file,omitempty"`
	Path      string  `json:"path,omitempty"`
}

// param is sent as a [name, number] pair so group order survives encoding.
type param struct {
	Name  string
	Value json.Number
}

func (p param) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Name, p.Value})
}

func encodeGroup(g params.Group) []param {
	out := make([]param, len(g))
	for i, p := range g {
		out[i] = param{Name: p.Name, Value: json.Number(p.Literal())}
	}
	return out
}

// reply is one line read back from the bridge script.
type reply struct {
	OK     bool    `json:"ok"`
	Kind   string  `json:"kind,omitempty"`
	Error  string  `json:"error,omitempty"`
	Result *string `json:"result,omitempty"`
}

// RemoteError is an exception raised inside the engine.
type RemoteError struct {
	Op      string
	Kind    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}
