// Package keys derives and combines the key material passkeep runs on.
//
// Every account has two independent derived values:
//   - the auth key, which only proves knowledge of the master password
//   - the crypt key, which encrypts vault fields
//
// Both are built the same way: PBKDF2-HMAC-SHA256 over the master password
// with a per-purpose random salt, XORed with a random secret key that lives
// in the OS keyring and never touches the database. Neither half alone is
// usable: the database rows are worthless without the keyring entry, and the
// keyring entry is worthless without the password-derived hash.
//
// Binary values (keys, salts, IVs, ciphertext) are text-encoded with a
// base64 variant whose trailing "+/" alphabet characters are replaced by
// "./" and whose padding is stripped. This encoding is part of the on-disk
// format; tools that read the database directly must use it.
package keys
