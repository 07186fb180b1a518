// Package vault owns the encrypted secret records of one authenticated
// session. All records for the owning username are loaded and decrypted
// eagerly at construction into a name-indexed cache; the cache is only ever
// invalidated by the same session's own writes and is never shared.
//
// Each record's three fields (name, description, password) are encrypted as
// one AES-256-CBC stream in that fixed order, so the chaining state carries
// from one field into the next. The IV is generated once when the record is
// created and reused for every later edit of that record. Re-encrypting
// changed plaintext under the same (key, IV) pair leaks XOR relations under
// CBC; that behavior is kept deliberately for compatibility with existing
// databases, and full key rotation regenerates nothing but the key.
//
// Padding is not PKCS#7: each field is padded with NUL bytes to the next
// block boundary and trailing NULs are trimmed on decrypt. A value that
// legitimately ends in a NUL byte therefore cannot round-trip exactly.
package vault
