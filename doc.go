// Package warden is the identity and credential core of a self-hosted
// personal-server appliance. It owns the single administrative account: the
// password hash, the passphrase-encrypted recovery seed, second-factor state,
// and the signed session tokens that authorize every other API on the box.
//
// The engine is file-backed. Every operation re-reads the account record from
// disk, so external writers such as a factory-reset tool are observed on the
// next call. Writes are atomic replacements; concurrent readers see either
// the fully-old or fully-new record, never a mix.
package warden
