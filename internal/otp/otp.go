package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// SuppressedCode is the fixed sentinel returned by a suppressed generator,
// so test and demo environments without outbound mail can still complete
// verification with a known code.
const SuppressedCode = "123456"

var codeSpace = big.NewInt(1000000)

// Generator produces 6-digit one-time passcodes.
type Generator struct {
	suppressed bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithSuppressed makes Generate return SuppressedCode deterministically.
// Test-only configuration, never for production use.
func WithSuppressed(suppressed bool) Option {
	return func(g *Generator) {
		g.suppressed = suppressed
	}
}

// New creates a new Generator.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a code drawn uniformly from 000000-999999, leading
// zeros preserved.
func (g *Generator) Generate() (string, error) {
	if g.suppressed {
		return SuppressedCode, nil
	}

	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
