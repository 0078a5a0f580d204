package common

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	ClientIPKey  contextKey = "client_ip"
	ClaimsKey    contextKey = "admin_claims"
)
