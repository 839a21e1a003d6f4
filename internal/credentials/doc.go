// Package credentials provides an in-memory registry for secrets delivered
// by the host system. Values are masked in all log output.
package credentials
