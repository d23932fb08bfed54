package api

import (
	"fmt"
	"net/url"
)

// Fixed endpoint paths
const (
	PathModels          = "/v1/models"
	PathModelsSupported = "/v1/models/supported"
	PathChatCompletions = "/v1/chat/completions"
	PathMessages        = "/v1/messages"
	PathAPIKeys         = "/v1/auth/api-keys"
	PathBalance         = "/v1/billing/balance"
	PathUsage           = "/v1/billing/usage"
	PathSubscription    = "/v1/billing/subscription"
	PathCheckout        = "/v1/billing/checkout"
	PathCancel          = "/v1/billing/cancel"
)

// ModelPath addresses a single model
func ModelPath(modelID string) string {
	return PathModels + "/" + url.PathEscape(modelID)
}

// TrainingDocumentPath is where documents for a model are submitted
func TrainingDocumentPath(modelID string) string {
	return ModelPath(modelID) + "/training/documents"
}

// TrainingRoomsPath is where training rooms for a model are created
func TrainingRoomsPath(modelID string) string {
	return ModelPath(modelID) + "/training/rooms"
}

// FinalizeRoomPath closes a training room
func FinalizeRoomPath(roomID string) string {
	return "/v1/training/rooms/" + url.PathEscape(roomID) + "/finalize"
}

// APIKeyPath addresses a single API key
func APIKeyPath(keyID string) string {
	return PathAPIKeys + "/" + url.PathEscape(keyID)
}

// UsagePath pages through usage history
func UsagePath(page, limit int) string {
	return fmt.Sprintf("%s?page=%d&limit=%d", PathUsage, page, limit)
}

// CheckoutPath starts a checkout session for a plan
func CheckoutPath(plan string) string {
	return PathCheckout + "?plan=" + url.QueryEscape(plan)
}
