// Package cursor encodes opaque pagination tokens for seq-keyed
// listings. Tokens are base64 JSON and carry a hash of the view they
// were minted for, so a token from one filter or sort order cannot be
// replayed against another.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Direction indicates which side of the anchor sequence a page reads.
type Direction string

const (
	// Forward reads rows with seq greater than the anchor.
	Forward Direction = "fwd"
	// Backward reads rows with seq less than the anchor.
	Backward Direction = "bwd"
)

// Token is the decoded state of a pagination token.
type Token struct {
	// Seq is the anchor sequence number the page starts after.
	Seq uint64 `json:"seq"`
	// Dir selects the side of the anchor to read.
	Dir Direction `json:"dir"`
	// Reverse flips the fetch order so a previous page reads from the
	// near edge. Callers restore display order after fetching.
	Reverse bool `json:"rev,omitempty"`
	// View binds the token to the filter and sort order it was minted
	// for.
	View string `json:"view,omitempty"`
}

// Encode serializes a token to its opaque wire form.
func Encode(t Token) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// Decode parses an opaque token. Malformed input and unknown
// directions are rejected.
func Decode(raw string) (Token, error) {
	if raw == "" {
		return Token{}, fmt.Errorf("empty token")
	}

	data, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return Token{}, fmt.Errorf("decode base64: %w", err)
	}

	var t Token
	if err := json.Unmarshal(data, &t); err != nil {
		return Token{}, fmt.Errorf("unmarshal token: %w", err)
	}

	if t.Dir != Forward && t.Dir != Backward {
		return Token{}, fmt.Errorf("invalid token direction: %q", t.Dir)
	}

	return t, nil
}

// ValidateView checks that the token was minted for the given filter
// and sort order.
func (t Token) ValidateView(filter, order string) error {
	if t.View != viewHash(filter, order) {
		return fmt.Errorf("listing changed since token was created")
	}
	return nil
}

// Next mints a token for the page after the given anchor. Ascending
// display order pages forward; descending pages backward.
func Next(lastSeq uint64, descending bool, filter, order string) Token {
	dir := Forward
	if descending {
		dir = Backward
	}
	return Token{
		Seq:  lastSeq,
		Dir:  dir,
		View: viewHash(filter, order),
	}
}

// Prev mints a token for the page before the given anchor. The fetch
// runs reversed so the rows nearest the anchor come back first.
func Prev(firstSeq uint64, descending bool, filter, order string) Token {
	dir := Backward
	if descending {
		dir = Forward
	}
	return Token{
		Seq:     firstSeq,
		Dir:     dir,
		Reverse: true,
		View:    viewHash(filter, order),
	}
}

// viewHash folds the filter and sort order into a short hash. 64 bits
// is plenty for detecting a changed listing.
func viewHash(filter, order string) string {
	h := sha256.Sum256([]byte(filter + "\x00" + order))
	return hex.EncodeToString(h[:8])
}
