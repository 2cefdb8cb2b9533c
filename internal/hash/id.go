// Package hash provides the xxHash64 fingerprints used for snapshot
// checksums, schema cache keys and file fingerprints.
package hash

import "github.com/cespare/xxhash/v2"

// Sum computes the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Key fingerprints a blob together with a name, e.g. a schema document and
// the root type compiled from it. A zero byte separates the two so that
// ("ab", "c") and ("a", "bc") hash differently.
func Key(blob []byte, name string) uint64 {
	d := xxhash.New()
	_, _ = d.Write(blob)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(name)

	return d.Sum64()
}
