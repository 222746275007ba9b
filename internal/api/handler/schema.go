package handler

// errorResponse mirrors the envelope produced by the API error handler. It
// exists here so swagger annotations can reference it.
type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}
