package auth

import "testing"

func TestNewClientChallenge(t *testing.T) {
	a, err := NewClientChallenge()
	if err != nil {
		t.Fatalf("NewClientChallenge: %v", err)
	}
	if len(a) != ClientChallengeSize {
		t.Fatalf("len = %d, want %d", len(a), ClientChallengeSize)
	}
	b, err := NewClientChallenge()
	if err != nil {
		t.Fatalf("NewClientChallenge: %v", err)
	}
	if string(a) == string(b) {
		t.Fatal("two challenges came back identical")
	}
}

func TestClientProofSHA256Deterministic(t *testing.T) {
	salt := make([]byte, SaltSize)
	serverChallenge := make([]byte, ServerChallengeSize)
	clientChallenge := make([]byte, ClientChallengeSize)
	for i := range salt {
		salt[i] = byte(i)
	}
	for i := range serverChallenge {
		serverChallenge[i] = byte(i * 3)
	}
	for i := range clientChallenge {
		clientChallenge[i] = byte(i * 7)
	}
	password := []byte("s3cr3t")

	p1 := ClientProofSHA256(salt, serverChallenge, clientChallenge, password)
	p2 := ClientProofSHA256(salt, serverChallenge, clientChallenge, password)
	if len(p1) != ClientProofSize {
		t.Fatalf("proof length = %d, want %d", len(p1), ClientProofSize)
	}
	if string(p1) != string(p2) {
		t.Fatal("same inputs produced different proofs")
	}

	p3 := ClientProofSHA256(salt, serverChallenge, clientChallenge, []byte("different"))
	if string(p1) == string(p3) {
		t.Fatal("different passwords produced the same proof")
	}
}

func TestClientProofPBKDF2SHA256(t *testing.T) {
	salt := make([]byte, SaltSize)
	serverChallenge := make([]byte, ServerChallengeSize)
	clientChallenge := make([]byte, ClientChallengeSize)
	password := []byte("s3cr3t")

	p1 := ClientProofPBKDF2SHA256(salt, serverChallenge, 15000, clientChallenge, password)
	p2 := ClientProofPBKDF2SHA256(salt, serverChallenge, 15000, clientChallenge, password)
	if len(p1) != ClientProofSize {
		t.Fatalf("proof length = %d, want %d", len(p1), ClientProofSize)
	}
	if string(p1) != string(p2) {
		t.Fatal("same inputs produced different proofs")
	}

	p3 := ClientProofPBKDF2SHA256(salt, serverChallenge, 30000, clientChallenge, password)
	if string(p1) == string(p3) {
		t.Fatal("different round counts produced the same proof")
	}

	sha := ClientProofSHA256(salt, serverChallenge, clientChallenge, password)
	if string(p1) == string(sha) {
		t.Fatal("PBKDF2 and plain SHA256 variants produced the same proof")
	}
}
