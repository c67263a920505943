package domain

import "fmt"

// FingerprintSource is one (directory, extension-filter) pair of a fingerprint.
type FingerprintSource struct {
	Dir string
	// Ext filters files by suffix, e.g. ".py". Empty matches every file.
	Ext string
}

// Fingerprint is a fixed-width digest over a sorted, filtered file list.
type Fingerprint struct {
	Sum uint64
	// Files is the number of files that contributed to the digest.
	Files int
}

// Hex returns the zero-padded hexadecimal form of the digest.
func (f Fingerprint) Hex() string {
	return fmt.Sprintf("%016x", f.Sum)
}

// Empty reports whether no files matched.
func (f Fingerprint) Empty() bool {
	return f.Files == 0
}

// CacheKey combines a fingerprint and an upstream revision into the published cache key.
func CacheKey(fp Fingerprint, revision string) string {
	return fp.Hex() + "-" + revision
}
