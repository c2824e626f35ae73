package password

import "golang.org/x/crypto/bcrypt"

// Hasher produces and verifies bcrypt digests. It is an immutable value
// constructed once and injected into the account service; there is no
// package-level hashing state.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Costs outside
// the range bcrypt supports fall back to bcrypt.DefaultCost, which keeps
// interactive login latency acceptable.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{cost: cost}
}

// Hash returns a salted, irreversible digest of plain. The salt and cost
// are embedded in the digest itself.
func (h Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches digest. Verification uses the
// cost embedded in the digest, so digests produced under an older cost
// configuration keep verifying. A corrupted digest verifies false rather
// than failing.
func (h Hasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
