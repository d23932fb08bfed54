package api

import (
	"encoding/json"
	"fmt"
)

// Fact is a basic fact about a model. The server sends either a bare string or
// an object with extraction metadata.
type Fact struct {
	Value          string `json:"value"`
	Status         string `json:"status,omitempty"`
	Identification string `json:"identification,omitempty"`

	bare bool
}

// UnmarshalJSON accepts both fact shapes
func (f *Fact) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = Fact{Value: s, bare: true}
		return nil
	}

	type fact Fact
	var obj fact
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("fact must be a string or object: %w", err)
	}
	*f = Fact(obj)
	return nil
}

// MarshalJSON keeps the shape the server sent
func (f Fact) MarshalJSON() ([]byte, error) {
	if f.bare {
		return json.Marshal(f.Value)
	}
	type fact Fact
	return json.Marshal(fact(f))
}

// Model is a Deepself model resource
type Model struct {
	ID           string          `json:"id"`
	Object       string          `json:"object"`
	Created      int64           `json:"created"`
	OwnedBy      string          `json:"owned_by"`
	Name         *string         `json:"name"`
	BasicFacts   map[string]Fact `json:"basic_facts"`
	DefaultTools []string        `json:"default_tools"`
}

// DisplayName returns the model name or a placeholder
func (m Model) DisplayName() string {
	if m.Name == nil || *m.Name == "" {
		return "<none>"
	}
	return *m.Name
}

// ModelsList is the list endpoint response
type ModelsList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// CreateModelRequest creates a model
type CreateModelRequest struct {
	Username     string            `json:"username"`
	Name         string            `json:"name,omitempty"`
	BasicFacts   map[string]string `json:"basic_facts,omitempty"`
	DefaultTools []string          `json:"default_tools,omitempty"`
}

// UpdateModelRequest is a partial update; omitted fields are left alone server-side
type UpdateModelRequest struct {
	Name         string            `json:"name,omitempty"`
	BasicFacts   map[string]string `json:"basic_facts,omitempty"`
	DefaultTools []string          `json:"default_tools,omitempty"`
}

// Empty reports whether the update would change nothing
func (r UpdateModelRequest) Empty() bool {
	return r.Name == "" && len(r.BasicFacts) == 0 && len(r.DefaultTools) == 0
}

// SupportedModel pairs an LLM identifier with the provider serving it
type SupportedModel struct {
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

// SupportedModelsResponse lists LLMs usable in owner@model targets
type SupportedModelsResponse struct {
	Models []SupportedModel `json:"models"`
}

// Perspective of a training document
type Perspective string

const (
	FirstPerson Perspective = "first-person"
	ThirdPerson Perspective = "third-person"
)

// Valid reports whether p is a known perspective
func (p Perspective) Valid() bool {
	return p == FirstPerson || p == ThirdPerson
}

// TrainDocumentRequest submits a document for extraction
type TrainDocumentRequest struct {
	Content     string      `json:"content"`
	Label       string      `json:"label"`
	Perspective Perspective `json:"perspective"`
}

// ExtractionStats counts what training extracted
type ExtractionStats struct {
	EpsilonsProcessed int `json:"epsilons_processed"`
	BetasProcessed    int `json:"betas_processed"`
	DeltasProcessed   int `json:"deltas_processed"`
	AlphasProcessed   int `json:"alphas_processed"`
}

// TrainDocumentResponse reports a processed document
type TrainDocumentResponse struct {
	DocumentID string          `json:"document_id"`
	Status     string          `json:"status"`
	Stats      ExtractionStats `json:"stats"`
}

// CreateRoomRequest opens a training room
type CreateRoomRequest struct {
	Label     string `json:"label"`
	UserModel string `json:"user_model"`
}

// CreateRoomResponse carries the new room id
type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
	Status string `json:"status"`
}

// FinalizeRoomResponse reports what a closed room extracted
type FinalizeRoomResponse struct {
	Status string          `json:"status"`
	Stats  ExtractionStats `json:"stats"`
}

// APIKey is a stored API key; the secret is never returned after creation
type APIKey struct {
	KeyID      string `json:"key_id"`
	Name       string `json:"name"`
	KeyPrefix  string `json:"key_prefix"`
	CreatedAt  int64  `json:"created_at"`
	LastUsedAt *int64 `json:"last_used_at,omitempty"`
}

// CreateAPIKeyRequest names a new key
type CreateAPIKeyRequest struct {
	Name string `json:"name"`
}

// CreateAPIKeyResponse carries the secret exactly once
type CreateAPIKeyResponse struct {
	KeyID  string `json:"key_id"`
	Name   string `json:"name"`
	APIKey string `json:"api_key"`
}

// BalanceResponse is the account credit balance
type BalanceResponse struct {
	IAMID      string  `json:"iam_id"`
	BalanceUSD float64 `json:"balance_usd"`
	Frozen     bool    `json:"frozen"`
}

// UsageEntry is one billed request
type UsageEntry struct {
	ID               string  `json:"id"`
	RequestID        string  `json:"request_id"`
	ModelUsername    string  `json:"model_username"`
	Provider         string  `json:"provider"`
	LLMModel         string  `json:"llm_model"`
	InputTokens      int64   `json:"input_tokens"`
	OutputTokens     int64   `json:"output_tokens"`
	ProviderCostUSD  float64 `json:"provider_cost_usd"`
	MarkupUSD        float64 `json:"markup_usd"`
	TotalDeductedUSD float64 `json:"total_deducted_usd"`
	CreatedAt        string  `json:"created_at"`
}

// UsageHistoryResponse is one page of usage
type UsageHistoryResponse struct {
	Entries []UsageEntry `json:"entries"`
	Page    int          `json:"page"`
	Limit   int          `json:"limit"`
	Total   int          `json:"total"`
}

// Pages returns the number of pages at the response's limit
func (u UsageHistoryResponse) Pages() int {
	if u.Limit <= 0 {
		return 0
	}
	return (u.Total + u.Limit - 1) / u.Limit
}

// SubscriptionResponse describes the current plan
type SubscriptionResponse struct {
	Plan             string  `json:"plan"`
	Status           string  `json:"status"`
	IAMCount         int     `json:"iam_count"`
	IAMLimit         int     `json:"iam_limit"`
	CurrentPeriodEnd *string `json:"current_period_end"`
}

// CheckoutResponse carries the payment page
type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// CancelSubscriptionResponse reports when access ends
type CancelSubscriptionResponse struct {
	CanceledAtPeriodEnd bool    `json:"canceled_at_period_end"`
	CurrentPeriodEnd    *string `json:"current_period_end"`
}
