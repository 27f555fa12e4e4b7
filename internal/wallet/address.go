package wallet

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

var (
	ErrEmptyAddress    = errors.New("wallet address is empty")
	ErrInvalidAddress  = errors.New("wallet address must be 0x followed by 40 hex characters")
	ErrAddressChecksum = errors.New("wallet address checksum mismatch")
)

// GenerateAddress returns a random ERC-20 style address for the demo wallet.
// No key pair backs it.
func GenerateAddress() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}
	return checksum(hex.EncodeToString(buf)), nil
}

// NormalizeAddress trims input and returns its EIP-55 checksummed form.
// All-lower or all-upper hex is accepted as is; mixed case must carry a valid checksum.
func NormalizeAddress(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyAddress
	}
	if len(s) != 42 || !(strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		return "", ErrInvalidAddress
	}
	body := s[2:]
	if _, err := hex.DecodeString(body); err != nil {
		return "", ErrInvalidAddress
	}
	want := checksum(strings.ToLower(body))
	if body != strings.ToLower(body) && body != strings.ToUpper(body) && "0x"+body != want {
		return "", ErrAddressChecksum
	}
	return want, nil
}

// checksum applies EIP-55 mixed-case encoding to a lowercase hex body.
func checksum(lower string) string {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(lower))
	digest := hex.EncodeToString(h.Sum(nil))

	out := []byte(lower)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			out[i] = c - 32
		}
	}
	return "0x" + string(out)
}

// ShortAddress renders 0x1234...abcd for display.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
