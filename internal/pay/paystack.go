package pay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is a minimal Paystack API client covering the calls the escrow
// ledger needs: charging a client, paying out a worker and refunding a
// charge.
type Client struct {
	httpClient *http.Client
	secretKey  string
	baseURL    string
}

// NewClient constructs a new Paystack client.
func NewClient(httpClient *http.Client, secretKey string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		secretKey:  secretKey,
		baseURL:    "https://api.paystack.co",
	}
}

// SetBaseURL overrides the API host, used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// ChargeRequest describes parameters for charging a client's saved
// authorization. Amount is in kobo.
type ChargeRequest struct {
	Email             string `json:"email"`
	Amount            int64  `json:"amount"`
	AuthorizationCode string `json:"authorization_code"`
	Reference         string `json:"reference"`
}

// TransferRequest describes a payout to a resolved transfer recipient.
// Amount is in kobo.
type TransferRequest struct {
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

// Charge debits the client and returns the gateway transaction reference.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (string, error) {
	var data struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	}
	if err := c.post(ctx, "/transaction/charge_authorization", req, &data); err != nil {
		return "", err
	}
	if data.Status != "success" {
		return "", fmt.Errorf("paystack: charge not successful: %s", data.Status)
	}
	return data.Reference, nil
}

// Transfer moves funds from the platform balance to the recipient and
// returns the gateway transfer code.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) (string, error) {
	payload := map[string]interface{}{
		"source":    "balance",
		"amount":    req.Amount,
		"recipient": req.Recipient,
		"reference": req.Reference,
		"reason":    req.Reason,
	}
	var data struct {
		TransferCode string `json:"transfer_code"`
	}
	if err := c.post(ctx, "/transfer", payload, &data); err != nil {
		return "", err
	}
	return data.TransferCode, nil
}

// CreateRecipient registers a bank account as a transfer recipient and
// returns the recipient code used for payouts.
func (c *Client) CreateRecipient(ctx context.Context, name, accountNumber, bankCode string) (string, error) {
	payload := map[string]interface{}{
		"type":           "nuban",
		"name":           name,
		"account_number": accountNumber,
		"bank_code":      bankCode,
		"currency":       "NGN",
	}
	var data struct {
		RecipientCode string `json:"recipient_code"`
	}
	if err := c.post(ctx, "/transferrecipient", payload, &data); err != nil {
		return "", err
	}
	return data.RecipientCode, nil
}

// Refund reverses a charge back to the client's card and returns the
// gateway refund id. Amount is in kobo; Paystack refunds the full charge
// when the amount matches the original transaction.
func (c *Client) Refund(ctx context.Context, transactionRef string, amount int64) (string, error) {
	payload := map[string]interface{}{
		"transaction": transactionRef,
		"amount":      amount,
	}
	var data struct {
		ID int64 `json:"id"`
	}
	if err := c.post(ctx, "/refund", payload, &data); err != nil {
		return "", err
	}
	return fmt.Sprintf("rfd-%d", data.ID), nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("paystack: unexpected status %s", resp.Status)
	}

	var apiResp struct {
		Status  bool            `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return err
	}
	if !apiResp.Status {
		return fmt.Errorf("paystack: %s", apiResp.Message)
	}
	if out != nil && len(apiResp.Data) > 0 {
		return json.Unmarshal(apiResp.Data, out)
	}
	return nil
}
