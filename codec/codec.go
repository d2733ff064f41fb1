// Package codec reads and writes SCALE encoded values on streams.
package codec

import (
	"fmt"
	"io"

	"github.com/spacemeshos/go-scale"
)

type (
	Encodable = scale.Encodable
	Decodable = scale.Decodable
)

// EncodeTo writes value to w and returns the number of bytes written.
func EncodeTo(w io.Writer, value Encodable) (int, error) {
	n, err := value.EncodeScale(scale.NewEncoder(w))
	if err != nil {
		return n, fmt.Errorf("encode %T: %w", value, err)
	}
	return n, nil
}

// DecodeFrom reads exactly one value from r. A stream that ends before the value is
// complete is an error.
func DecodeFrom(r io.Reader, value Decodable) (int, error) {
	n, err := value.DecodeScale(scale.NewDecoder(r))
	if err != nil {
		return n, fmt.Errorf("decode %T: %w", value, err)
	}
	return n, nil
}
