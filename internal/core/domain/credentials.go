package domain

// CredentialPool is an ordered set of opaque credentials with a cursor.
// The cursor is always in [0, Len()) and the pool never shrinks.
type CredentialPool struct {
	tokens []string
	cursor int
}

// NewCredentialPool creates a pool from tokens, dropping empty entries.
func NewCredentialPool(tokens []string) (*CredentialPool, error) {
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoCredentials
	}
	return &CredentialPool{tokens: kept}, nil
}

// Len returns the number of credentials.
func (p *CredentialPool) Len() int {
	return len(p.tokens)
}

// Cursor returns the current cursor position.
func (p *CredentialPool) Cursor() int {
	return p.cursor
}

// Current returns the credential at the cursor.
func (p *CredentialPool) Current() string {
	return p.tokens[p.cursor]
}

// Advance moves the cursor to the next credential, wrapping around,
// and returns the new current credential.
func (p *CredentialPool) Advance() string {
	p.cursor = (p.cursor + 1) % len(p.tokens)
	return p.tokens[p.cursor]
}

// Mask returns a credential shortened for display.
func Mask(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// NewAnonymousPool returns a single-entry pool holding the empty credential,
// used when no token is configured.
func NewAnonymousPool() *CredentialPool {
	return &CredentialPool{tokens: []string{""}}
}

// Anonymous reports whether the pool only holds the empty credential.
func (p *CredentialPool) Anonymous() bool {
	return len(p.tokens) == 1 && p.tokens[0] == ""
}
