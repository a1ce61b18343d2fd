package serializer

import (
	"bytes"
	"testing"

	"github.com/chainkit/ledgerdb/lib/db"
	"github.com/chainkit/ledgerdb/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":   NewJSONSerializer,
	"GOB":    NewGOBSerializer,
	"Binary": NewBinarySerializer,
}

// testMessages creates a set of test messages with different fields filled
func testMessages() []common.Message {
	return []common.Message{
		// Basic message with just a type
		{MsgType: common.MsgTSuccess},

		// Insert request
		{
			MsgType:  common.MsgTInsert,
			Category: db.CategoryBlock.Prefix(),
			Key:      []byte("test-key"),
			Value:    []byte("test-value"),
		},

		// Get response
		{
			MsgType: common.MsgTGet,
			Value:   []byte("test-value"),
			Found:   true,
		},

		// Batch insert request
		{
			MsgType:  common.MsgTInsertBatch,
			Category: db.CategoryTransaction.Prefix(),
			Keys:     [][]byte{[]byte("k1"), []byte("k2"), []byte("k3")},
			Values:   [][]byte{[]byte("v1"), []byte("v2"), []byte("v3")},
		},

		// Batch get response with mixed hits and misses
		{
			MsgType:   common.MsgTGetBatch,
			Values:    [][]byte{[]byte("v1"), nil, []byte("v3")},
			FoundMany: []bool{true, false, true},
		},

		// Error response carrying the database return code
		{
			MsgType: common.MsgTError,
			Err:     "test error message",
			ErrCode: db.RetCInvalidData,
		},

		// Remove batch request for the overlapping prefix category
		{
			MsgType:  common.MsgTRemoveBatch,
			Category: db.CategoryTransactionPool.Prefix(),
			Keys:     [][]byte{[]byte("pool-key-1"), []byte("pool-key-2")},
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				// Compare field by field, treating nil and empty slices as equal
				if !messagesEquivalent(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// messagesEquivalent compares two messages treating nil and empty byte
// slices as equal, since not every encoding preserves that distinction.
func messagesEquivalent(a, b common.Message) bool {
	if a.MsgType != b.MsgType || a.Category != b.Category ||
		a.Found != b.Found || a.Err != b.Err || a.ErrCode != b.ErrCode {
		return false
	}
	if !bytes.Equal(a.Key, b.Key) || !bytes.Equal(a.Value, b.Value) {
		return false
	}
	if len(a.Keys) != len(b.Keys) || len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Keys {
		if !bytes.Equal(a.Keys[i], b.Keys[i]) {
			return false
		}
	}
	for i := range a.Values {
		if !bytes.Equal(a.Values[i], b.Values[i]) {
			return false
		}
	}
	if len(a.FoundMany) != len(b.FoundMany) {
		return false
	}
	for i := range a.FoundMany {
		if a.FoundMany[i] != b.FoundMany[i] {
			return false
		}
	}
	return true
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			// Test each message type (don't test for MsgTUnknown since this should raise an error)
			for msgType := common.MsgTSuccess; msgType <= common.MsgTRemoveBatch; msgType++ {
				msg := common.Message{MsgType: msgType}

				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message type %s: %v", msgType.String(), err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message type %s: %v", msgType.String(), err)
					continue
				}

				// Check type
				if result.MsgType != msgType {
					t.Errorf("Message type doesn't match after round trip: Expected %s, got %s",
						msgType.String(), result.MsgType.String())
				}
			}
		})
	}
}

// TestBinarySerializerSpecific tests specific edge cases for the binary serializer
func TestBinarySerializerSpecific(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name string
		msg  common.Message
	}{
		{
			name: "Empty message",
			msg:  common.Message{},
		},
		{
			name: "Message with empty key and value slices but not nil",
			msg: common.Message{
				MsgType: common.MsgTInsert,
				Key:     []byte{},
				Value:   []byte{},
			},
		},
		{
			name: "Message with found but no value",
			msg: common.Message{
				MsgType: common.MsgTContains,
				Found:   true,
			},
		},
		{
			name: "Message with empty batch lists but not nil",
			msg: common.Message{
				MsgType:   common.MsgTGetBatch,
				Keys:      [][]byte{},
				Values:    [][]byte{},
				FoundMany: []bool{},
			},
		},
		{
			name: "Message with empty elements inside batch lists",
			msg: common.Message{
				MsgType: common.MsgTInsertBatch,
				Keys:    [][]byte{{}, []byte("k")},
				Values:  [][]byte{[]byte("v"), {}},
			},
		},
		{
			name: "Message with binary key bytes",
			msg: common.Message{
				MsgType:  common.MsgTGet,
				Category: "state-",
				Key:      []byte{0x00, 0xff, 0x10, 0x00},
			},
		},
		{
			name: "Message with error code but empty error text",
			msg: common.Message{
				MsgType: common.MsgTError,
				ErrCode: db.RetCInternalError,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Serialize
			data, err := serializer.Serialize(tc.msg)
			if err != nil {
				t.Fatalf("Failed to serialize: %v", err)
			}

			// Deserialize
			var result common.Message
			err = serializer.Deserialize(data, &result)
			if err != nil {
				t.Fatalf("Failed to deserialize: %v", err)
			}

			// Verify simple fields
			if tc.msg.MsgType != result.MsgType {
				t.Errorf("MsgType mismatch: expected %v, got %v", tc.msg.MsgType, result.MsgType)
			}
			if tc.msg.Category != result.Category {
				t.Errorf("Category mismatch: expected '%s', got '%s'", tc.msg.Category, result.Category)
			}
			if tc.msg.Found != result.Found {
				t.Errorf("Found mismatch: expected %v, got %v", tc.msg.Found, result.Found)
			}
			if tc.msg.Err != result.Err {
				t.Errorf("Err mismatch: expected '%s', got '%s'", tc.msg.Err, result.Err)
			}
			if tc.msg.ErrCode != result.ErrCode {
				t.Errorf("ErrCode mismatch: expected %s, got %s", tc.msg.ErrCode, result.ErrCode)
			}

			// The binary format preserves the nil/non-nil distinction for byte fields
			if (tc.msg.Key == nil) != (result.Key == nil) || !bytes.Equal(tc.msg.Key, result.Key) {
				t.Errorf("Key mismatch: expected %v, got %v", tc.msg.Key, result.Key)
			}
			if (tc.msg.Value == nil) != (result.Value == nil) || !bytes.Equal(tc.msg.Value, result.Value) {
				t.Errorf("Value mismatch: expected %v, got %v", tc.msg.Value, result.Value)
			}

			// And for the batch lists
			if (tc.msg.Keys == nil) != (result.Keys == nil) || len(tc.msg.Keys) != len(result.Keys) {
				t.Fatalf("Keys mismatch: expected %v, got %v", tc.msg.Keys, result.Keys)
			}
			for i := range tc.msg.Keys {
				if !bytes.Equal(tc.msg.Keys[i], result.Keys[i]) {
					t.Errorf("Keys[%d] mismatch: expected %v, got %v", i, tc.msg.Keys[i], result.Keys[i])
				}
			}
			if (tc.msg.Values == nil) != (result.Values == nil) || len(tc.msg.Values) != len(result.Values) {
				t.Fatalf("Values mismatch: expected %v, got %v", tc.msg.Values, result.Values)
			}
			for i := range tc.msg.Values {
				if !bytes.Equal(tc.msg.Values[i], result.Values[i]) {
					t.Errorf("Values[%d] mismatch: expected %v, got %v", i, tc.msg.Values[i], result.Values[i])
				}
			}
			if (tc.msg.FoundMany == nil) != (result.FoundMany == nil) || len(tc.msg.FoundMany) != len(result.FoundMany) {
				t.Fatalf("FoundMany mismatch: expected %v, got %v", tc.msg.FoundMany, result.FoundMany)
			}
		})
	}
}

// TestInvalidBinaryData tests how the binary serializer handles corrupt or invalid data
func TestInvalidBinaryData(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name:        "Empty data",
			data:        []byte{},
			expectError: true,
		},
		{
			name:        "Too short header",
			data:        []byte{1}, // Only message type, no flags
			expectError: true,
		},
		{
			name:        "Valid header only",
			data:        []byte{1, 0}, // Message type 1, no flags
			expectError: false,
		},
		{
			name:        "Invalid length for key",
			data:        []byte{1, 2, 0, 0, 0, 5, 'a', 'b', 'c'}, // Claims key length 5 but only 3 bytes provided
			expectError: true,
		},
		{
			name:        "Invalid length for value",
			data:        []byte{1, 4, 0, 0, 0, 10}, // Claims value length 10 but no bytes provided
			expectError: true,
		},
		{
			name:        "Truncated key list",
			data:        []byte{1, 8, 0, 0, 0, 2, 0, 0, 0, 1, 'a'}, // Claims two keys but only one provided
			expectError: true,
		},
		{
			name:        "Truncated found list",
			data:        []byte{1, 64, 0, 0, 0, 3, 1}, // Claims three entries but only one provided
			expectError: true,
		},
		{
			name:        "Missing error code",
			data:        []byte{1, 128}, // Error flag set but neither code nor message provided
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var msg common.Message
			err := serializer.Deserialize(tc.data, &msg)

			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
		})
	}
}
