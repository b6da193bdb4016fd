package middlewares

// CtxRequestID is the gin context key holding the request id; handlers read it
// through the plain "request_id" key as well.
const CtxRequestID = "request_id"
