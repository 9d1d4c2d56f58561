// Package seal encrypts small secrets under a passphrase using age scrypt
// recipients. Ciphertext is returned base64-encoded so callers can store it
// directly inside JSON records. Decryption failures collapse into a single
// sentinel error so callers cannot distinguish a wrong passphrase from a
// corrupt ciphertext.
package seal
