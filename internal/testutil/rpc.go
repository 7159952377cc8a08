package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
)

// RPCResponse is a decoded procedure response.
type RPCResponse struct {
	Status  int
	Data    json.RawMessage
	Code    string
	Message string
	Cookies []*http.Cookie
}

// Decode unmarshals the result data into v.
func (r RPCResponse) Decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Data, v); err != nil {
		t.Fatalf("decode result %s: %v", r.Data, err)
	}
}

// RPCRequest builds a POST for the named procedure with input as JSON.
// A nil input sends an empty body.
func RPCRequest(t *testing.T, name string, input any) *http.Request {
	t.Helper()
	var body []byte
	if input != nil {
		var err error
		if body, err = json.Marshal(input); err != nil {
			t.Fatalf("marshal input: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, "/"+name, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// CallRPC serves req through rt and decodes the envelope.
func CallRPC(t *testing.T, rt *rpc.Router, req *http.Request) RPCResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	rt.Routes().ServeHTTP(rec, req)

	var env struct {
		Result *struct {
			Data json.RawMessage `json:"data"`
		} `json:"result"`
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}

	out := RPCResponse{Status: rec.Code, Cookies: rec.Result().Cookies()}
	if env.Result != nil {
		out.Data = env.Result.Data
	}
	if env.Error != nil {
		out.Code = env.Error.Code
		out.Message = env.Error.Message
	}
	return out
}
