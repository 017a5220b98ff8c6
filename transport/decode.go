package transport

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// decodeBody undoes every Content-Encoding in reverse order of application.
func decodeBody(contentEncoding string, body []byte) ([]byte, error) {
	if contentEncoding == "" || len(body) == 0 {
		return body, nil
	}

	encodings := strings.Split(contentEncoding, ",")
	for i := len(encodings) - 1; i >= 0; i-- {
		encoding := strings.ToLower(strings.TrimSpace(encodings[i]))

		var err error
		switch encoding {
		case "", "identity":
			continue
		case "gzip", "x-gzip":
			body, err = decodeGzip(body)
		case "deflate":
			body, err = decodeDeflate(body)
		case "br":
			body, err = readLimited(brotli.NewReader(bytes.NewReader(body)))
		case "zstd":
			body, err = decodeZstd(body)
		default:
			return nil, fmt.Errorf("unsupported content encoding %q", encoding)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s body: %w", encoding, err)
		}
	}

	return body, nil
}

func decodeGzip(body []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return readLimited(reader)
}

// decodeDeflate accepts both zlib-wrapped and raw deflate streams; servers
// disagree about which one "deflate" means.
func decodeDeflate(body []byte) ([]byte, error) {
	if reader, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
		defer reader.Close()
		decoded, err := readLimited(reader)
		if err == nil || errors.Is(err, ErrBodyTooLarge) {
			return decoded, err
		}
	}

	reader := flate.NewReader(bytes.NewReader(body))
	defer reader.Close()

	return readLimited(reader)
}

func decodeZstd(body []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	return readLimited(decoder)
}
