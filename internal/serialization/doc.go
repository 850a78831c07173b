// Package serialization saves and loads trained networks in the .snet
// checkpoint format.
//
//	Format Structure:
//	  [4 bytes: Magic "SNET"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON metadata]
//	  [Zero padding to a 64-byte boundary]
//	  [Matrix data: row-major float64 LE]
//
// The JSON header records the layer sizes, learning rate, activation name,
// a run id, the offset of every matrix in the data section and the hex
// SHA-256 checksum of the whole data section.
//
// Example usage:
//
//	// Save a network
//	hdr, err := serialization.Save("xor.snet", net, serialization.Meta{
//	    Metadata: map[string]string{"dataset": "xor"},
//	})
//
//	// Load it back
//	net, hdr, err := serialization.Load("xor.snet")
//
// Networks can also be exported to SafeTensors (F64) for other tools with
// ExportSafeTensors.
package serialization
