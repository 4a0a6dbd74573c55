package session

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// maxBlobSize bounds the decompressed size of a stored session
const maxBlobSize = 16 << 20

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	codecOnce   sync.Once
	codecErr    error
	blobEncoder *zstd.Encoder
	blobDecoder *zstd.Decoder
)

func blobCodec() (*zstd.Encoder, *zstd.Decoder, error) {
	codecOnce.Do(func() {
		blobEncoder, codecErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if codecErr != nil {
			codecErr = fmt.Errorf("failed to create zstd encoder: %w", codecErr)
			return
		}
		blobDecoder, codecErr = newBlobDecoder(maxBlobSize)
	})
	return blobEncoder, blobDecoder, codecErr
}

func newBlobDecoder(limit uint64) (*zstd.Decoder, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return dec, nil
}

// EncodeBlob compresses a session document into a zstd frame
func EncodeBlob(doc []byte) ([]byte, error) {
	enc, _, err := blobCodec()
	if err != nil {
		return nil, err
	}
	return enc.EncodeAll(doc, make([]byte, 0, len(doc)/2)), nil
}

// DecodeBlob returns the document inside blob. Anything that is not a zstd
// frame is assumed to be a plain document and returned unchanged.
func DecodeBlob(blob []byte) ([]byte, error) {
	if !IsCompressed(blob) {
		return blob, nil
	}
	_, dec, err := blobCodec()
	if err != nil {
		return nil, err
	}
	return decodeWith(dec, blob)
}

func decodeWith(dec *zstd.Decoder, blob []byte) ([]byte, error) {
	doc, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress session: %w", err)
	}
	return doc, nil
}

// IsCompressed reports whether blob starts with a zstd frame
func IsCompressed(blob []byte) bool {
	return bytes.HasPrefix(blob, zstdMagic)
}
