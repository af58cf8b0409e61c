package zk

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// Serialized BN254 PLONK proofs are around a kilobyte, so anything that
// inflates beyond this is not a proof.
const maxDecompressedProofSize = 64 * 1024

var ErrProofTooLarge = errors.New("decompressed proof exceeds maximum size")

// CompressProof zlib-compresses a serialized proof for transport
func CompressProof(proof []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, errors.Wrap(err, "error creating zlib writer")
	}

	if _, err := w.Write(proof); err != nil {
		return nil, errors.Wrap(err, "error compressing proof")
	}

	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "error flushing compressed proof")
	}

	return buf.Bytes(), nil
}

// DecompressProof reverses CompressProof
func DecompressProof(compressed []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, errors.Wrap(err, "error creating zlib reader")
	}
	defer r.Close()

	proof, err := io.ReadAll(io.LimitReader(r, maxDecompressedProofSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "error decompressing proof")
	}

	if len(proof) > maxDecompressedProofSize {
		return nil, ErrProofTooLarge
	}

	return proof, nil
}
