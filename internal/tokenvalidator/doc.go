// Package tokenvalidator adapts a raw bearer assertion string into a
// domain.UserAssertion. It sits at the system boundary: callers building a
// Delegated or Composite auth request from an incoming HTTP Authorization
// header go through a Validator first. The pool's core never parses a raw
// token itself.
package tokenvalidator
