package common

import (
	"encoding/json"
	"fmt"

	"github.com/chainkit/ledgerdb/lib/db"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// Category carries the data category as its ASCII wire prefix
	// (e.g. "block-"). Used for: every storage request
	Category string `json:"category,omitempty"`

	// Point operation fields
	Key   []byte `json:"key,omitempty"`   // Used for: Get, Insert, Contains, Remove requests
	Value []byte `json:"value,omitempty"` // Used for: Insert (request), Get (response)

	// Batch operation fields
	Keys   [][]byte `json:"keys,omitempty"`   // Used for: GetBatch, InsertBatch, RemoveBatch requests
	Values [][]byte `json:"values,omitempty"` // Used for: InsertBatch (request), GetBatch (response)

	// Response only fields
	Found     bool       `json:"found,omitempty"`      // Used for: Get, Contains responses
	FoundMany []bool     `json:"found_many,omitempty"` // Used for: GetBatch responses, parallel to Values
	Err       string     `json:"err,omitempty"`        // Empty if no error, otherwise contains the error message
	ErrCode   db.RetCode `json:"err_code,omitempty"`   // Return code of the error, RetCSuccess if no error
}

// ResolveCategory resolves the Category field back to a db.DataCategory.
func (m *Message) ResolveCategory() (db.DataCategory, error) {
	c, ok := db.CategoryByPrefix(m.Category)
	if !ok {
		return 0, fmt.Errorf("unknown data category prefix: %q", m.Category)
	}
	return c, nil
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// errString converts an error to its wire representation.
func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// NewGetRequest creates a new Get request
func NewGetRequest(c db.DataCategory, key []byte) *Message {
	return &Message{
		MsgType:  MsgTGet,
		Category: c.Prefix(),
		Key:      key,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(value []byte, found bool, err error) *Message {
	return &Message{
		MsgType: MsgTGet,
		Value:   value,
		Found:   found,
		Err:     errString(err),
		ErrCode: db.CodeOf(err),
	}
}

// NewGetBatchRequest creates a new GetBatch request
func NewGetBatchRequest(c db.DataCategory, keys [][]byte) *Message {
	return &Message{
		MsgType:  MsgTGetBatch,
		Category: c.Prefix(),
		Keys:     keys,
	}
}

// NewGetBatchResponse creates a new GetBatch response.
// values and found are parallel slices with one element per requested key.
func NewGetBatchResponse(values [][]byte, found []bool, err error) *Message {
	return &Message{
		MsgType:   MsgTGetBatch,
		Values:    values,
		FoundMany: found,
		Err:       errString(err),
		ErrCode:   db.CodeOf(err),
	}
}

// NewInsertRequest creates a new Insert request
func NewInsertRequest(c db.DataCategory, key, value []byte) *Message {
	return &Message{
		MsgType:  MsgTInsert,
		Category: c.Prefix(),
		Key:      key,
		Value:    value,
	}
}

// NewInsertResponse creates a new Insert response
func NewInsertResponse(err error) *Message {
	return &Message{
		MsgType: MsgTInsert,
		Err:     errString(err),
		ErrCode: db.CodeOf(err),
	}
}

// NewInsertBatchRequest creates a new InsertBatch request
func NewInsertBatchRequest(c db.DataCategory, keys, values [][]byte) *Message {
	return &Message{
		MsgType:  MsgTInsertBatch,
		Category: c.Prefix(),
		Keys:     keys,
		Values:   values,
	}
}

// NewInsertBatchResponse creates a new InsertBatch response
func NewInsertBatchResponse(err error) *Message {
	return &Message{
		MsgType: MsgTInsertBatch,
		Err:     errString(err),
		ErrCode: db.CodeOf(err),
	}
}

// NewContainsRequest creates a new Contains request
func NewContainsRequest(c db.DataCategory, key []byte) *Message {
	return &Message{
		MsgType:  MsgTContains,
		Category: c.Prefix(),
		Key:      key,
	}
}

// NewContainsResponse creates a new Contains response
func NewContainsResponse(found bool, err error) *Message {
	return &Message{
		MsgType: MsgTContains,
		Found:   found,
		Err:     errString(err),
		ErrCode: db.CodeOf(err),
	}
}

// NewRemoveRequest creates a new Remove request
func NewRemoveRequest(c db.DataCategory, key []byte) *Message {
	return &Message{
		MsgType:  MsgTRemove,
		Category: c.Prefix(),
		Key:      key,
	}
}

// NewRemoveResponse creates a new Remove response
func NewRemoveResponse(err error) *Message {
	return &Message{
		MsgType: MsgTRemove,
		Err:     errString(err),
		ErrCode: db.CodeOf(err),
	}
}

// NewRemoveBatchRequest creates a new RemoveBatch request
func NewRemoveBatchRequest(c db.DataCategory, keys [][]byte) *Message {
	return &Message{
		MsgType:  MsgTRemoveBatch,
		Category: c.Prefix(),
		Keys:     keys,
	}
}

// NewRemoveBatchResponse creates a new RemoveBatch response
func NewRemoveBatchResponse(err error) *Message {
	return &Message{
		MsgType: MsgTRemoveBatch,
		Err:     errString(err),
		ErrCode: db.CodeOf(err),
	}
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(code db.RetCode, err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
		ErrCode: code,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTGet:
		return "get"
	case MsgTGetBatch:
		return "getBatch"
	case MsgTInsert:
		return "insert"
	case MsgTInsertBatch:
		return "insertBatch"
	case MsgTContains:
		return "contains"
	case MsgTRemove:
		return "remove"
	case MsgTRemoveBatch:
		return "removeBatch"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "get":
		*t = MsgTGet
	case "getBatch":
		*t = MsgTGetBatch
	case "insert":
		*t = MsgTInsert
	case "insertBatch":
		*t = MsgTInsertBatch
	case "contains":
		*t = MsgTContains
	case "remove":
		*t = MsgTRemove
	case "removeBatch":
		*t = MsgTRemoveBatch
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// Storage operations

	MsgTGet         // Get a record by category and key
	MsgTGetBatch    // Get a batch of records
	MsgTInsert      // Insert or overwrite a record
	MsgTInsertBatch // Insert a batch of records
	MsgTContains    // Check if a record exists
	MsgTRemove      // Remove a record
	MsgTRemoveBatch // Remove a batch of records
)
