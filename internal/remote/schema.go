package remote

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Schema selects the wire format spoken to the answering service.
type Schema string

const (
	// SchemaAsk: {"question": ...} -> {"answer": ...}
	SchemaAsk Schema = "ask"
	// SchemaChat: {"message": ..., "user_id": ...} -> {"response": ...}
	SchemaChat Schema = "chat"
)

func ParseSchema(raw string) (Schema, error) {
	switch Schema(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SchemaAsk:
		return SchemaAsk, nil
	case SchemaChat:
		return SchemaChat, nil
	default:
		return "", fmt.Errorf("unknown schema %q (want %q or %q)", raw, SchemaAsk, SchemaChat)
	}
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer" validate:"required"`
}

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type chatResponse struct {
	Response string `json:"response" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// codec builds request bodies and extracts the answer for one schema.
type codec struct {
	schema Schema
	userID string
}

func (c codec) body(question string) any {
	if c.schema == SchemaChat {
		return chatRequest{Message: question, UserID: c.userID}
	}
	return askRequest{Question: question}
}

// decode parses a success body. Missing or blank answer fields are errors.
func (c codec) decode(raw []byte) (string, error) {
	if c.schema == SchemaChat {
		var resp chatResponse
		if err := unmarshalStrict(raw, &resp); err != nil {
			return "", err
		}
		return resp.Response, nil
	}

	var resp askResponse
	if err := unmarshalStrict(raw, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

func unmarshalStrict(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validate response: %w", err)
	}
	return nil
}
