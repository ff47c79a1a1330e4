// Package store resolves and loads namespaces inside a loqet context.
//
// A context directory holds namespaces. A namespace named "inventory" may be
// realised by up to three files, listed here from highest to lowest precedence:
//
//	inventory.yaml.open   decrypted working copy
//	inventory.yaml        plaintext, never encrypted by loqet
//	inventory.yaml.loq    encrypted vault
//
// Only the highest precedence file that exists is loaded. This lets a user
// decrypt a vault, change the .open copy, test against it and close it again
// without the vault ever being read in between.
//
// The read API is deliberately one-way. Store.Set always fails: secrets are
// changed by editing files, never by writing values through the API.
//
// Each batch operation (OpenAll, CloseAll) reports an Outcome per namespace and
// keeps going past individual failures.
package store
