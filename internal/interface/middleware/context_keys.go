package middleware

// Gin context keys shared by middleware and handlers.
const (
	CtxClaimsKey    = "claims"
	CtxUserIDKey    = "userID"
	CtxRequestIDKey = "request_id"
	CtxRealIPKey    = "real_ip"
)
