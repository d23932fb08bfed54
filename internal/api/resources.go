package api

import "context"

// ListModels returns the caller's models
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var resp ModelsList
	if err := c.Get(ctx, PathModels, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetModel fetches one model
func (c *Client) GetModel(ctx context.Context, modelID string) (*Model, error) {
	var model Model
	if err := c.Get(ctx, ModelPath(modelID), &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// CreateModel creates a model
func (c *Client) CreateModel(ctx context.Context, req CreateModelRequest) (*Model, error) {
	var model Model
	if err := c.Post(ctx, PathModels, req, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// UpdateModel applies a partial update and returns the server's copy
func (c *Client) UpdateModel(ctx context.Context, modelID string, req UpdateModelRequest) (*Model, error) {
	var model Model
	if err := c.Patch(ctx, ModelPath(modelID), req, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// DeleteModel deletes a model
func (c *Client) DeleteModel(ctx context.Context, modelID string) error {
	return c.Delete(ctx, ModelPath(modelID), nil)
}

// SupportedModels lists the LLMs usable in owner@model targets. Public endpoint.
func (c *Client) SupportedModels(ctx context.Context) ([]SupportedModel, error) {
	var resp SupportedModelsResponse
	if err := c.Get(ctx, PathModelsSupported, &resp); err != nil {
		return nil, err
	}
	return resp.Models, nil
}

// TrainDocument submits a document to a model
func (c *Client) TrainDocument(ctx context.Context, modelID string, req TrainDocumentRequest) (*TrainDocumentResponse, error) {
	var resp TrainDocumentResponse
	if err := c.Post(ctx, TrainingDocumentPath(modelID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateRoom opens a training room for a model
func (c *Client) CreateRoom(ctx context.Context, modelID, label string) (*CreateRoomResponse, error) {
	var resp CreateRoomResponse
	req := CreateRoomRequest{Label: label, UserModel: modelID}
	if err := c.Post(ctx, TrainingRoomsPath(modelID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FinalizeRoom closes a training room
func (c *Client) FinalizeRoom(ctx context.Context, roomID string) (*FinalizeRoomResponse, error) {
	var resp FinalizeRoomResponse
	if err := c.Post(ctx, FinalizeRoomPath(roomID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Balance returns the credit balance
func (c *Client) Balance(ctx context.Context) (*BalanceResponse, error) {
	var resp BalanceResponse
	if err := c.Get(ctx, PathBalance, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Usage returns one page of usage history
func (c *Client) Usage(ctx context.Context, page, limit int) (*UsageHistoryResponse, error) {
	var resp UsageHistoryResponse
	if err := c.Get(ctx, UsagePath(page, limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Subscription returns the current plan
func (c *Client) Subscription(ctx context.Context) (*SubscriptionResponse, error) {
	var resp SubscriptionResponse
	if err := c.Get(ctx, PathSubscription, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Checkout starts an upgrade to plan
func (c *Client) Checkout(ctx context.Context, plan string) (*CheckoutResponse, error) {
	var resp CheckoutResponse
	if err := c.Post(ctx, CheckoutPath(plan), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelSubscription cancels at the end of the billing period
func (c *Client) CancelSubscription(ctx context.Context) (*CancelSubscriptionResponse, error) {
	var resp CancelSubscriptionResponse
	if err := c.Post(ctx, PathCancel, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListAPIKeys lists API keys. Requires a session token.
func (c *Client) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	var keys []APIKey
	if err := c.Get(ctx, PathAPIKeys, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// CreateAPIKey mints a key. Requires a session token.
func (c *Client) CreateAPIKey(ctx context.Context, name string) (*CreateAPIKeyResponse, error) {
	var resp CreateAPIKeyResponse
	if err := c.Post(ctx, PathAPIKeys, CreateAPIKeyRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RevokeAPIKey revokes a key. Requires a session token.
func (c *Client) RevokeAPIKey(ctx context.Context, keyID string) error {
	return c.Delete(ctx, APIKeyPath(keyID), nil)
}
