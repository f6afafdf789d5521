package dto

type VertexGenerateRequest struct {
	Model            string
	System           string
	History          []VertexMessage
	UserMessage      string
	ResponseMIMEType string
	Temperature      *float32
	MaxOutputTokens  *int32
}

// VertexMessage is a prior chat turn; Role is "user" or "model".
type VertexMessage struct {
	Role string
	Text string
}

type VertexGenerateResponse struct {
	Text string
	Raw  any
}
