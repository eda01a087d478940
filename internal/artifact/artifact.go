// Package artifact persists the inputs that triggered a fatal engine
// verdict, so a crash can be replayed after the process is gone. Records
// are msgpack-encoded and written atomically; the file name carries a
// digest of the raw input.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
	"go.dw1.io/x/hash/wyhash"

	"rexfuzz/internal/testcase"
)

// Current schema version - increment when Record format changes
const schemaVersion uint16 = 1

// ErrSchema reports a record written by an incompatible version.
var ErrSchema = errors.New("artifact: unknown schema version")

// Record is everything needed to replay one fatal input.
type Record struct {
	Schema   uint16
	Digest   uint64
	InputLen uint32

	Engine   string
	Encoding string
	Syntax   string
	Options  uint16
	Backward bool

	Pattern []byte
	Subject []byte
	Input   []byte
}

// FromTestCase builds a record for the raw input and its decoded form.
func FromTestCase(input []byte, tc *testcase.TestCase, engineName string) (*Record, error) {
	inputLen, err := safecast.Conv[uint32](len(input))
	if err != nil {
		return nil, fmt.Errorf("artifact: input length overflow: %w", err)
	}
	return &Record{
		Schema:   schemaVersion,
		Digest:   wyhash.Sum64(input),
		InputLen: inputLen,
		Engine:   engineName,
		Encoding: tc.Encoding.Name(),
		Syntax:   tc.Syntax.String(),
		Options:  uint16(tc.Options),
		Backward: tc.Backward,
		Pattern:  tc.Pattern,
		Subject:  tc.Subject,
		Input:    input,
	}, nil
}

// Write serializes rec into dir and returns the final path. The write
// goes through a temp file and an atomic rename so a crash mid-write
// never leaves a truncated record behind.
func Write(dir string, rec *Record) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("crash-%016x.mp", rec.Digest))

	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(rec); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	// атомарная замена
	if err := os.Rename(f.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// Read loads and validates a record.
func Read(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	var rec Record
	if err := msgpack.NewDecoder(f).Decode(&rec); err != nil {
		return nil, err
	}
	if rec.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchema, rec.Schema)
	}
	return &rec, nil
}
