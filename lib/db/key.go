package db

// --------------------------------------------------------------------------
// Composite Key Encoding
// --------------------------------------------------------------------------

// EncodeKey builds the composite key a backend stores a record under. The
// encoding is one fixed-width category tag byte followed by the raw key
// bytes. The function is pure and total: it never fails, has no side
// effects and always returns a fresh slice.
//
// Fixed-width tags make the encoding collision-free across categories -
// unlike the ASCII wire prefixes, where "transaction-" + "pool-x" and
// "transaction-pool-" + "x" would produce the same bytes.
func EncodeKey(c DataCategory, key []byte) []byte {
	composite := make([]byte, 1+len(key))
	composite[0] = byte(c)
	copy(composite[1:], key)
	return composite
}

// EncodeKeys applies EncodeKey to every element of keys, preserving input
// order and length.
func EncodeKeys(c DataCategory, keys [][]byte) [][]byte {
	composites := make([][]byte, len(keys))
	for i, key := range keys {
		composites[i] = EncodeKey(c, key)
	}
	return composites
}
