package common

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "token"

// RequestIDHeaderName is echoed back on every HTTP response.
const RequestIDHeaderName = "X-Request-ID"
