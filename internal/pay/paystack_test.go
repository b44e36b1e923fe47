package pay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChargeSuccess(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/charge_authorization" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Charge attempted",
			"data":    map[string]interface{}{"reference": "trx_123", "status": "success"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), "sk_test_abc")
	c.SetBaseURL(srv.URL)

	ref, err := c.Charge(context.Background(), ChargeRequest{
		Email:             "client@example.com",
		Amount:            10000,
		AuthorizationCode: "AUTH_x",
		Reference:         "bk-1",
	})
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if ref != "trx_123" {
		t.Fatalf("expected reference trx_123, got %s", ref)
	}
	if gotAuth != "Bearer sk_test_abc" {
		t.Fatalf("expected bearer auth header, got %q", gotAuth)
	}
	if gotBody["amount"].(float64) != 10000 {
		t.Fatalf("expected amount 10000, got %v", gotBody["amount"])
	}
}

func TestChargeDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Charge attempted",
			"data":    map[string]interface{}{"reference": "trx_124", "status": "failed"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), "sk_test_abc")
	c.SetBaseURL(srv.URL)

	if _, err := c.Charge(context.Background(), ChargeRequest{Amount: 5000}); err == nil {
		t.Fatal("expected error for declined charge")
	}
}

func TestTransferAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Your balance is not enough",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), "sk_test_abc")
	c.SetBaseURL(srv.URL)

	if _, err := c.Transfer(context.Background(), TransferRequest{Amount: 9500, Recipient: "RCP_1"}); err == nil {
		t.Fatal("expected error for unsuccessful transfer")
	}
}

func TestTransferSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transfer" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["source"] != "balance" {
			t.Fatalf("expected source balance, got %v", body["source"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Transfer queued",
			"data":    map[string]interface{}{"transfer_code": "TRF_55"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), "sk_test_abc")
	c.SetBaseURL(srv.URL)

	code, err := c.Transfer(context.Background(), TransferRequest{Amount: 9500, Recipient: "RCP_1", Reference: "esc-1", Reason: "booking payout"})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if code != "TRF_55" {
		t.Fatalf("expected TRF_55, got %s", code)
	}
}
