package validator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type sampleRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=10"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

func TestValidateRequest(t *testing.T) {
	call := func(body string) (*sampleRequest, bool, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		w := httptest.NewRecorder()
		parsed, ok := ValidateRequest[sampleRequest](w, req)
		return parsed, ok, w
	}

	t.Run("valid body", func(t *testing.T) {
		parsed, ok, _ := call(`{"name":"iPhone","amount":5}`)
		if !ok {
			t.Fatal("want ok")
		}
		if parsed.Name != "iPhone" || parsed.Amount != 5 {
			t.Errorf("parsed = %+v", parsed)
		}
	})

	t.Run("malformed json is 400", func(t *testing.T) {
		_, ok, w := call(`{"name":`)
		if ok {
			t.Fatal("want !ok")
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("validation failure is 422 with field map", func(t *testing.T) {
		_, ok, w := call(`{"name":"this name is way too long","amount":-1}`)
		if ok {
			t.Fatal("want !ok")
		}
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", w.Code)
		}

		var resp struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		// Field names come from json tags, not Go field names.
		if _, ok := resp.Fields["name"]; !ok {
			t.Errorf("missing name in fields: %v", resp.Fields)
		}
		if _, ok := resp.Fields["amount"]; !ok {
			t.Errorf("missing amount in fields: %v", resp.Fields)
		}
	})
}
