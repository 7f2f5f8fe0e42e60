// Package api defines the shared error taxonomy and metadata types used
// across bfrobot's keyword, lifecycle, and listener layers.
//
// Errors are modeled as typed structs with errors.As-based predicates so
// that callers can distinguish the handful of outcomes that matter at the
// host-engine boundary: configuration problems (abort before device
// contact), deployment failures (abort the run), unknown keywords (fail the
// single invocation), malformed requirements (fail the single evaluation),
// environment mismatches (skip the test), and access-before-deployment.
package api
