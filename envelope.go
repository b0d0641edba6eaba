package bundlecache

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/opencontainers/go-digest"

	"github.com/lingopack/bundlecache/codec"
)

// envelope is the persisted JSON form of a cache entry. data carries the
// payload's own JSON when stored uncompressed, or the codec output as a
// JSON string when metadata.compressed is set.
type envelope struct {
	Data     json.RawMessage `json:"data"`
	Metadata Metadata        `json:"metadata"`
}

// encodeEnvelope serializes an entry for persistence. payload is the
// serialized uncompressed bundle; compressed is the codec output, consulted
// only when meta.Compressed is set.
func encodeEnvelope(payload, compressed []byte, meta Metadata) ([]byte, error) {
	env := envelope{Metadata: meta}
	if meta.Compressed {
		blob, err := json.Marshal(compressed)
		if err != nil {
			return nil, fmt.Errorf("encode compressed payload: %w", err)
		}
		env.Data = blob
	} else {
		env.Data = payload
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return raw, nil
}

// decodeEnvelope parses persisted bytes back into an entry, reversing
// compression and verifying the payload checksum when one is recorded.
// Any error means the entry is corrupted.
func decodeEnvelope(raw []byte, c codec.Codec) (*Entry, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("parse envelope: %w", err)
	}

	payload := []byte(env.Data)
	if env.Metadata.Compressed {
		var blob []byte
		if err := json.Unmarshal(env.Data, &blob); err != nil {
			return nil, fmt.Errorf("decode compressed payload: %w", err)
		}
		if c == nil {
			return nil, errors.New("compressed entry with no codec")
		}
		out, err := c.Decompress(blob)
		if err != nil {
			return nil, fmt.Errorf("decompress payload: %w", err)
		}
		if !json.Valid(out) {
			return nil, errors.New("decompressed payload is not valid JSON")
		}
		payload = out
	}

	if err := verifyChecksum(payload, env.Metadata.Checksum); err != nil {
		return nil, err
	}

	return &Entry{Data: payload, Metadata: env.Metadata}, nil
}

// verifyChecksum checks the payload against its recorded digest. Entries
// written by other tooling may omit the checksum; those pass unverified.
func verifyChecksum(payload []byte, want digest.Digest) error {
	if want == "" {
		return nil
	}
	if err := want.Validate(); err != nil {
		return fmt.Errorf("invalid checksum: %w", err)
	}
	if got := want.Algorithm().FromBytes(payload); got != want {
		return fmt.Errorf("checksum mismatch: %s != %s", got, want)
	}
	return nil
}
