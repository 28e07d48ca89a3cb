package endpoint

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/kailas-cloud/osclient/types"
)

type pingReq struct {
	index string
	body  []byte
}

var pingEndpoint = &Endpoint[pingReq, BooleanResponse]{
	ID:     "test/ping",
	Method: Constant[pingReq](http.MethodHead),
	Path: func(r pingReq) (string, error) {
		return ResolvePath("test/ping", r, PathSet(0).With(bitIndex, r.index != ""),
			Template[pingReq]{Mask: bitIndex, Build: func(r pingReq, p *PathBuilder) { p.Segment(r.index) }},
		)
	},
	Body:    func(r pingReq) ([]byte, error) { return r.body, nil },
	Decoder: BooleanDecoder(),
}

func TestPrepare(t *testing.T) {
	req, err := pingEndpoint.Prepare(pingReq{index: "idx"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != http.MethodHead || req.Path != "/idx" || req.Endpoint != "test/ping" {
		t.Errorf("got %+v", req)
	}
	if req.Body != nil || req.ContentType != "" {
		t.Error("nil body should leave Body and ContentType empty")
	}

	req, err = pingEndpoint.Prepare(pingReq{index: "idx", body: []byte(`{}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ContentType != ApplicationJSON {
		t.Errorf("ContentType = %q", req.ContentType)
	}
}

func TestPrepare_PathError(t *testing.T) {
	if _, err := pingEndpoint.Prepare(pingReq{}); !errors.Is(err, ErrNoPathTemplate) {
		t.Fatalf("expected ErrNoPathTemplate, got %v", err)
	}
}

func TestBooleanDecoder(t *testing.T) {
	dec := BooleanDecoder()
	tests := []struct {
		status  int
		want    bool
		wantErr bool
	}{
		{200, true, false},
		{204, true, false},
		{404, false, false},
		{500, false, true},
		{403, false, true},
	}
	for _, tc := range tests {
		got, err := dec(&Response{StatusCode: tc.status})
		if (err != nil) != tc.wantErr {
			t.Fatalf("status %d: err = %v", tc.status, err)
		}
		if got.Value != tc.want {
			t.Errorf("status %d: value = %v, want %v", tc.status, got.Value, tc.want)
		}
		if tc.wantErr {
			var er *types.ErrorResponse
			if !errors.As(err, &er) || er.Status != tc.status {
				t.Errorf("status %d: expected ErrorResponse, got %v", tc.status, err)
			}
		}
	}
}

type doc struct {
	Found bool   `json:"found"`
	ID    string `json:"_id"`
}

func TestJSONDecoder(t *testing.T) {
	dec := JSONDecoder[*doc](http.StatusNotFound)

	got, err := dec(&Response{StatusCode: 200, Body: []byte(`{"found":true,"_id":"1"}`)})
	if err != nil || !got.Found || got.ID != "1" {
		t.Fatalf("got %+v, %v", got, err)
	}

	got, err = dec(&Response{StatusCode: 404, Body: []byte(`{"found":false,"_id":"2"}`)})
	if err != nil || got.Found {
		t.Fatalf("ignored 404: got %+v, %v", got, err)
	}

	_, err = dec(&Response{StatusCode: 404, Body: []byte(`{"error":{"type":"index_not_found_exception","reason":"no such index [x]"},"status":404}`)})
	if er := new(types.ErrorResponse); !errors.As(err, &er) || er.Cause.Type != "index_not_found_exception" {
		t.Fatalf("ignored status with error body: got %v", err)
	}

	_, err = dec(&Response{StatusCode: 400, Body: []byte(`{"error":{"type":"parsing_exception","reason":"bad"},"status":400}`)})
	var er *types.ErrorResponse
	if !errors.As(err, &er) {
		t.Fatalf("expected ErrorResponse, got %v", err)
	}
	if er.Cause.Type != "parsing_exception" || er.Status != 400 {
		t.Errorf("got %+v", er)
	}

	if _, err = dec(&Response{StatusCode: 200}); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
	if _, err = dec(&Response{StatusCode: 200, Body: []byte(`nope`)}); err == nil {
		t.Error("expected decode error")
	}
}

func TestExecute(t *testing.T) {
	var seen *Request
	tr := TransportFunc(func(_ context.Context, req *Request) (*Response, error) {
		seen = req
		return &Response{StatusCode: http.StatusNotFound}, nil
	})
	res, err := Execute(context.Background(), tr, pingEndpoint, pingReq{index: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value {
		t.Error("404 should decode to false")
	}
	if seen == nil || seen.Path != "/a" {
		t.Errorf("transport saw %+v", seen)
	}

	boom := errors.New("boom")
	failing := TransportFunc(func(context.Context, *Request) (*Response, error) { return nil, boom })
	if _, err := Execute(context.Background(), failing, pingEndpoint, pingReq{index: "a"}); !errors.Is(err, boom) {
		t.Errorf("expected transport error, got %v", err)
	}
}
