package db

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Data Categories
// --------------------------------------------------------------------------

// DataCategory selects the logical namespace a raw key lives in. The set of
// categories is closed: it enumerates exactly the record families the
// ledger data layer stores.
type DataCategory uint8

const (
	CategoryBlock               DataCategory = iota // block bodies and headers
	CategoryTransaction                             // confirmed transactions
	CategoryReceipt                                 // execution receipts
	CategoryState                                   // world-state entries
	CategoryTransactionPool                         // pending transactions
	CategoryTransactionPosition                     // transaction inclusion positions

	numCategories // sentinel, keep last
)

// categoryPrefixes is the wire identity of each category. The prefixes are
// a compatibility contract shared with the other implementations of the
// storage interface and must match byte for byte - never change them.
//
// Note that "transaction-" is a proper prefix of "transaction-pool-" and
// "transaction-position-". That is why composite keys are built from the
// fixed-width category tag (see key.go) and not from these strings: the
// prefixes identify a category on the wire as a complete value, they are
// never concatenated with raw key bytes.
var categoryPrefixes = [numCategories]string{
	CategoryBlock:               "block-",
	CategoryTransaction:         "transaction-",
	CategoryReceipt:             "receipt-",
	CategoryState:               "state-",
	CategoryTransactionPool:     "transaction-pool-",
	CategoryTransactionPosition: "transaction-position-",
}

var categoryNames = [numCategories]string{
	CategoryBlock:               "block",
	CategoryTransaction:         "transaction",
	CategoryReceipt:             "receipt",
	CategoryState:               "state",
	CategoryTransactionPool:     "transaction-pool",
	CategoryTransactionPosition: "transaction-position",
}

// Categories returns all defined data categories in declaration order.
func Categories() []DataCategory {
	cs := make([]DataCategory, numCategories)
	for i := range cs {
		cs[i] = DataCategory(i)
	}
	return cs
}

// Valid reports whether c is one of the defined categories.
func (c DataCategory) Valid() bool {
	return c < numCategories
}

// Prefix returns the ASCII wire prefix of the category, e.g. "block-" for
// CategoryBlock. The mapping is fixed, case-sensitive and not configurable.
func (c DataCategory) Prefix() string {
	if !c.Valid() {
		return ""
	}
	return categoryPrefixes[c]
}

// String returns the short name of the category, e.g. "block".
func (c DataCategory) String() string {
	if !c.Valid() {
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
	return categoryNames[c]
}

// CategoryByPrefix resolves a wire prefix back to its category. The lookup
// is an exact match on the complete prefix string, so the overlapping
// prefixes are unambiguous here.
func CategoryByPrefix(prefix string) (DataCategory, bool) {
	for i, p := range categoryPrefixes {
		if p == prefix {
			return DataCategory(i), true
		}
	}
	return 0, false
}

// CategoryByName resolves a short category name (as returned by String) to
// its category.
func CategoryByName(name string) (DataCategory, bool) {
	for i, n := range categoryNames {
		if n == name {
			return DataCategory(i), true
		}
	}
	return 0, false
}

// --------------------------------------------------------------------------
// JSON Codec
// --------------------------------------------------------------------------

// MarshalJSON implements the json.Marshaler interface for DataCategory.
// Categories are serialized by their wire prefix.
func (c DataCategory) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal unknown data category %d", uint8(c))
	}
	return json.Marshal(c.Prefix())
}

// UnmarshalJSON implements the json.Unmarshaler interface for DataCategory.
func (c *DataCategory) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := CategoryByPrefix(s)
	if !ok {
		return fmt.Errorf("unknown data category prefix: %q", s)
	}
	*c = parsed
	return nil
}
