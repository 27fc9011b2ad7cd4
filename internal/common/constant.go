package common

// AuthorizationHeaderName carries the bearer credential on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is prepended to the access token in the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName tags every outbound API request so that client and
// server logs can be correlated.
const RequestIDHeaderName = "X-Request-ID"

// Keys of the only values persisted across restarts.
const (
	PrefTokenKey = "token"
	PrefThemeKey = "theme"
)
