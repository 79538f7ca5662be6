// Package auth implements the SCRAM-family client proof computations
// used during the CONNECT handshake. It knows nothing about the wire
// framing of the Authentication Part; callers hand it salts and
// challenges pulled off the wire and get back a client proof.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// Method names as advertised in the Authentication Part's method list.
const (
	MethodSCRAMSHA256       = "SCRAMSHA256"
	MethodSCRAMPBKDF2SHA256 = "SCRAMPBKDF2SHA256"
)

// Fixed sizes the server enforces for every SCRAM variant.
const (
	ClientChallengeSize = 64
	ServerChallengeSize = 48
	SaltSize            = 16
	ClientProofSize     = 32
)

// NewClientChallenge returns a fresh random client challenge for one
// authentication attempt.
func NewClientChallenge() ([]byte, error) {
	b := make([]byte, ClientChallengeSize)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func sha256Sum(p []byte) []byte {
	h := sha256.New()
	h.Write(p)
	return h.Sum(nil)
}

func hmacSum(key, p []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(p)
	return h.Sum(nil)
}

func xor(a, b []byte) []byte {
	r := make([]byte, len(a))
	for i := range a {
		r[i] = a[i] ^ b[i]
	}
	return r
}

// ClientProofSHA256 computes the client proof for MethodSCRAMSHA256: the
// salted key is the raw HMAC of the password with the salt.
func ClientProofSHA256(salt, serverChallenge, clientChallenge, password []byte) []byte {
	buf := make([]byte, 0, len(salt)+len(serverChallenge)+len(clientChallenge))
	buf = append(buf, salt...)
	buf = append(buf, serverChallenge...)
	buf = append(buf, clientChallenge...)

	key := sha256Sum(hmacSum(password, salt))
	sig := hmacSum(sha256Sum(key), buf)
	return xor(sig, key)
}

// ClientProofPBKDF2SHA256 computes the client proof for
// MethodSCRAMPBKDF2SHA256: the salted key is derived from the password
// via PBKDF2-HMAC-SHA256 with the server-supplied round count.
func ClientProofPBKDF2SHA256(salt, serverChallenge []byte, rounds uint32, clientChallenge, password []byte) []byte {
	buf := make([]byte, 0, len(salt)+len(serverChallenge)+len(clientChallenge))
	buf = append(buf, salt...)
	buf = append(buf, serverChallenge...)
	buf = append(buf, clientChallenge...)

	key := sha256Sum(pbkdf2.Key(password, salt, int(rounds), ClientProofSize, sha256.New))
	sig := hmacSum(sha256Sum(key), buf)
	return xor(sig, key)
}
