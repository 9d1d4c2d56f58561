// Package password hashes and verifies the administrator password using
// argon2id with a PHC-encoded output. The encoded hash embeds the salt and
// cost parameters, so verification re-derives from the stored string alone
// and the configured cost stays fixed for the lifetime of the installation.
package password
