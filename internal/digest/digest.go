// Package digest composes a MaskConfig's hash algorithm chain into a
// single digest function, precomputed once per mask request rather
// than once per token.
package digest

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"strings"

	"github.com/ul-mds/pprl-go/internal/pprlerr"
	"github.com/ul-mds/pprl-go/pkg/model"
)

// Fn hashes a byte string into a digest. Only the first 16 bytes of
// the result matter to callers: internal/mask reads them through
// token.DestructureDigest before handing them to internal/strategy.
type Fn func([]byte) []byte

func newHasher(alg model.HashAlgorithm) (func() hash.Hash, bool) {
	switch alg {
	case model.HashAlgorithmMD5:
		return md5.New, true
	case model.HashAlgorithmSHA1:
		return sha1.New, true
	case model.HashAlgorithmSHA256:
		return sha256.New, true
	case model.HashAlgorithmSHA512:
		return sha512.New, true
	default:
		return nil, false
	}
}

// Resolve builds the digest chain described by fn. If fn.Key is nil,
// each stage is a plain digest; otherwise each stage is an HMAC under
// that stage's algorithm keyed with fn.Key.
func Resolve(fn model.HashFunction) (Fn, error) {
	hashers := make([]func() hash.Hash, len(fn.Algorithms))

	unimplemented := make([]string, 0)
	for i, alg := range fn.Algorithms {
		h, ok := newHasher(alg)
		if !ok {
			unimplemented = append(unimplemented, string(alg))
			continue
		}
		hashers[i] = h
	}

	if len(unimplemented) > 0 {
		field := "hash function"
		if fn.Key != nil {
			field = "hmac function"
		}
		return nil, pprlerr.Capability("unimplemented %s in `%s`", field, strings.Join(unimplemented, "`, `"))
	}

	if fn.Key == nil {
		return func(b []byte) []byte {
			digest := b
			for _, newHash := range hashers {
				h := newHash()
				h.Write(digest)
				digest = h.Sum(nil)
			}
			return digest
		}, nil
	}

	key := []byte(*fn.Key)

	return func(b []byte) []byte {
		digest := b
		for _, newHash := range hashers {
			mac := hmac.New(newHash, key)
			mac.Write(digest)
			digest = mac.Sum(nil)
		}
		return digest
	}, nil
}
