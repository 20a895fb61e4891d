package handlers

// RequestIDKey is the Gin context key holding the request correlation id.
// The httpserver middleware sets it; handlers read it for log lines.
const RequestIDKey = "request_id"
