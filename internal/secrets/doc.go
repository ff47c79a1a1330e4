// Package secrets provides the cryptographic core of loqet.
//
// It handles symmetric encryption of text, the on-disk vault envelope,
// per-context key files, and the file plumbing (atomic writes, backups,
// .gitignore bookkeeping) that surrounds them.
//
// # Encryption
//
// Plaintext is sealed with NaCl secretbox (XSalsa20-Poly1305) under a
// 32-byte key. A random 24-byte nonce is prepended to the box and the
// result is URL-safe base64 encoded into a ciphertext token. Encrypting
// the same text twice produces different tokens. Authentication of the box
// is the only integrity check.
//
// # Envelope Format
//
// A vault (.loq) file looks like:
//
//	#loq;
//	<64 characters of token>
//	<64 characters of token>
//	<remainder>
//
// A file is a vault iff its first line equals the header exactly.
// ReadVault checks the header before decrypting so a format error is never
// reported as a wrong key.
//
// # Key Management
//
// Keys live in <config_dir>/<context>.key as base64 text with 0600
// permissions. Writing over an existing key first copies it to
// <context>.key.bak.<unix_timestamp>. Losing a key makes everything
// encrypted under it unrecoverable; callers should show KeyLossWarning
// whenever a key is generated.
package secrets
