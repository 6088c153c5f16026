// Package domain holds the core value objects of the client pool: auth
// requests, the validated auth context derived from them, credential kinds,
// and the credential payload itself. Nothing in this package performs I/O;
// validation is a pure function of its inputs and the current time.
package domain
