package storage

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

const (
	// Magic bytes to identify our file format
	MagicBytes = "GODB"
	// Current version
	FormatVersion = 2
	// File extension for snapshots
	FileExtension = ".godb"
)

// Header flags
const (
	FlagCompressed uint8 = 1 << iota
)

// FileHeader represents the header of a snapshot file
type FileHeader struct {
	Magic    [4]byte // "GODB"
	Version  uint8   // Format version
	Flags    uint8   // FlagCompressed when the payload is an lz4 block
	Reserved [2]byte // Reserved for future use
	Length   uint32  // Uncompressed payload length
}

// WriteHeader writes the file header to the given writer
func WriteHeader(w io.Writer, flags uint8, length int) error {
	header := FileHeader{
		Magic:   [4]byte{'G', 'O', 'D', 'B'},
		Version: FormatVersion,
		Flags:   flags,
		Length:  uint32(length),
	}
	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the file header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// StorageData is the snapshot payload
type StorageData struct {
	Collections map[string]map[string]interface{} `msgpack:"collections"`
	Indexes     map[string][]domain.IndexSpec     `msgpack:"indexes,omitempty"`
	Metadata    map[string]interface{}            `msgpack:"metadata,omitempty"`
}

// NewStorageData creates a new empty storage data structure
func NewStorageData() *StorageData {
	return &StorageData{
		Collections: make(map[string]map[string]interface{}),
		Indexes:     make(map[string][]domain.IndexSpec),
		Metadata:    make(map[string]interface{}),
	}
}
