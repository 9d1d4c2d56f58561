// Package jwt issues and verifies ed25519-signed session tokens. Keys live in
// PEM files on the appliance data volume and are provisioned on first boot;
// LoadOrGenerate is safe to call from concurrently starting processes.
package jwt
