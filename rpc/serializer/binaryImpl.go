package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/chainkit/ledgerdb/lib/db"
	"github.com/chainkit/ledgerdb/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasCategory  byte = 1 << 0
	hasKey       byte = 1 << 1
	hasValue     byte = 1 << 2
	hasKeys      byte = 1 << 3
	hasValues    byte = 1 << 4
	hasFound     byte = 1 << 5
	hasFoundMany byte = 1 << 6
	hasErr       byte = 1 << 7
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	// Calculate total size needed
	totalSize := b.sizeBytes(msg)
	result := make([]byte, totalSize)

	// Write message type
	result[0] = byte(msg.MsgType)

	// Initialize flags byte
	var flags byte = 0

	// Set position for writing
	pos := 2 // Start after MsgType and flags

	// Handle Category
	if msg.Category != "" {
		flags |= hasCategory
		pos = writeBytes(result, pos, []byte(msg.Category))
	}

	// Handle Key
	if msg.Key != nil {
		flags |= hasKey
		pos = writeBytes(result, pos, msg.Key)
	}

	// Handle Value
	if msg.Value != nil {
		flags |= hasValue
		pos = writeBytes(result, pos, msg.Value)
	}

	// Handle Keys
	if msg.Keys != nil {
		flags |= hasKeys
		pos = writeList(result, pos, msg.Keys)
	}

	// Handle Values
	if msg.Values != nil {
		flags |= hasValues
		pos = writeList(result, pos, msg.Values)
	}

	// Handle Found
	if msg.Found {
		flags |= hasFound
		result[pos] = 1
		pos += 1
	}

	// Handle FoundMany (one byte per entry)
	if msg.FoundMany != nil {
		flags |= hasFoundMany
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.FoundMany)))
		pos += 4
		for _, f := range msg.FoundMany {
			if f {
				result[pos] = 1
			} else {
				result[pos] = 0
			}
			pos += 1
		}
	}

	// Handle Err and ErrCode (the code fits in one byte and is only
	// meaningful alongside an error, so both share the hasErr flag)
	if msg.Err != "" || msg.ErrCode != 0 {
		flags |= hasErr
		result[pos] = byte(msg.ErrCode)
		pos += 1
		pos = writeBytes(result, pos, []byte(msg.Err))
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	// Read message type
	msg.MsgType = common.MessageType(data[0])

	// Read flags
	flags := data[1]

	// Initialize read position
	pos := 2
	var err error

	// Read Category if present
	if flags&hasCategory != 0 {
		var category []byte
		if category, pos, err = readBytes(data, pos, "category"); err != nil {
			return err
		}
		msg.Category = string(category)
	} else {
		msg.Category = ""
	}

	// Read Key if present
	if flags&hasKey != 0 {
		if msg.Key, pos, err = readBytes(data, pos, "key"); err != nil {
			return err
		}
	} else {
		msg.Key = nil
	}

	// Read Value if present
	if flags&hasValue != 0 {
		if msg.Value, pos, err = readBytes(data, pos, "value"); err != nil {
			return err
		}
	} else {
		msg.Value = nil
	}

	// Read Keys if present
	if flags&hasKeys != 0 {
		if msg.Keys, pos, err = readList(data, pos, "keys"); err != nil {
			return err
		}
	} else {
		msg.Keys = nil
	}

	// Read Values if present
	if flags&hasValues != 0 {
		if msg.Values, pos, err = readList(data, pos, "values"); err != nil {
			return err
		}
	} else {
		msg.Values = nil
	}

	// Read Found if present
	if flags&hasFound != 0 {
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for found flag")
		}
		msg.Found = data[pos] != 0
		pos += 1
	} else {
		msg.Found = false
	}

	// Read FoundMany if present
	if flags&hasFoundMany != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for found list length")
		}
		count := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+count > len(data) {
			return fmt.Errorf("data too short for found list data")
		}
		msg.FoundMany = make([]bool, count)
		for i := 0; i < count; i++ {
			msg.FoundMany[i] = data[pos] != 0
			pos += 1
		}
	} else {
		msg.FoundMany = nil
	}

	// Read Err and ErrCode if present
	if flags&hasErr != 0 {
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for error code")
		}
		msg.ErrCode = db.RetCode(data[pos])
		pos += 1

		var errBytes []byte
		if errBytes, pos, err = readBytes(data, pos, "error"); err != nil {
			return err
		}
		msg.Err = string(errBytes)
	} else {
		msg.Err = ""
		msg.ErrCode = db.RetCSuccess
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// writeBytes writes a length prefixed byte field and returns the new position
func writeBytes(dst []byte, pos int, b []byte) int {
	binary.BigEndian.PutUint32(dst[pos:pos+4], uint32(len(b)))
	pos += 4
	copy(dst[pos:pos+len(b)], b)
	return pos + len(b)
}

// readBytes reads a length prefixed byte field and returns the data and the new position
func readBytes(data []byte, pos int, field string) ([]byte, int, error) {
	if pos+4 > len(data) {
		return nil, pos, fmt.Errorf("data too short for %s length", field)
	}
	length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4

	if pos+length > len(data) {
		return nil, pos, fmt.Errorf("data too short for %s data", field)
	}
	b := make([]byte, length)
	copy(b, data[pos:pos+length])
	return b, pos + length, nil
}

// writeList writes a count prefixed list of length prefixed byte fields
func writeList(dst []byte, pos int, list [][]byte) int {
	binary.BigEndian.PutUint32(dst[pos:pos+4], uint32(len(list)))
	pos += 4
	for _, b := range list {
		pos = writeBytes(dst, pos, b)
	}
	return pos
}

// readList reads a count prefixed list of length prefixed byte fields
func readList(data []byte, pos int, field string) ([][]byte, int, error) {
	if pos+4 > len(data) {
		return nil, pos, fmt.Errorf("data too short for %s count", field)
	}
	count := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4

	list := make([][]byte, count)
	var err error
	for i := 0; i < count; i++ {
		if list[i], pos, err = readBytes(data, pos, field); err != nil {
			return nil, pos, err
		}
	}
	return list, pos, nil
}

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	// Add sizes for fields that require length encoding
	if msg.Category != "" {
		size += 4 + len(msg.Category)
	}
	if msg.Key != nil {
		size += 4 + len(msg.Key)
	}
	if msg.Value != nil {
		size += 4 + len(msg.Value)
	}
	if msg.Keys != nil {
		size += 4 // count
		for _, k := range msg.Keys {
			size += 4 + len(k)
		}
	}
	if msg.Values != nil {
		size += 4 // count
		for _, v := range msg.Values {
			size += 4 + len(v)
		}
	}
	if msg.Found {
		size += 1
	}
	if msg.FoundMany != nil {
		size += 4 + len(msg.FoundMany)
	}
	if msg.Err != "" || msg.ErrCode != 0 {
		size += 1 + 4 + len(msg.Err)
	}

	return size
}
