package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindLookup     ErrorKind = "LOOKUP_ERROR"
	KindCredential ErrorKind = "CREDENTIAL_ERROR"
	KindDelivery   ErrorKind = "DELIVERY_ERROR"
)

// DispatchError is the failure of one dispatch stage. Detail holds the raw
// payload returned by the failing collaborator, if it returned one.
type DispatchError struct {
	Kind    ErrorKind
	Message string
	Detail  json.RawMessage
	Err     error
}

func (e *DispatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func NewLookupError(message string, err error) *DispatchError {
	return &DispatchError{Kind: KindLookup, Message: message, Err: err}
}

func NewCredentialError(message string, err error) *DispatchError {
	return &DispatchError{Kind: KindCredential, Message: message, Err: err}
}

// NewDeliveryError keeps the provider body as-is when it is JSON, otherwise
// it is stored as a JSON string.
func NewDeliveryError(message string, body []byte, err error) *DispatchError {
	return &DispatchError{Kind: KindDelivery, Message: message, Detail: rawOrString(body), Err: err}
}

func rawOrString(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}

// AsDispatchError extracts a DispatchError from an error chain.
func AsDispatchError(err error) (*DispatchError, bool) {
	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		return dispatchErr, true
	}
	return nil, false
}

func IsKind(err error, kind ErrorKind) bool {
	dispatchErr, ok := AsDispatchError(err)
	return ok && dispatchErr.Kind == kind
}
