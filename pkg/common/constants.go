package common

const (
	RequestIDHeader = "X-Request-ID"
	AdminAuthHeader = "Authorization"

	HeaderRealIP               = "X-Real-IP"
	HeaderForwardedFor         = "X-Forwarded-For"
	HeaderOriginalForwardedFor = "X-Original-Forwarded-For"
	HeaderTrueClientIP         = "True-Client-IP"
	HeaderCFConnectingIP       = "CF-Connecting-IP"
)

// ClientIPHeaders are consulted in order before falling back to the peer address.
var ClientIPHeaders = []string{
	HeaderRealIP,
	HeaderForwardedFor,
	HeaderOriginalForwardedFor,
	HeaderTrueClientIP,
	HeaderCFConnectingIP,
}
