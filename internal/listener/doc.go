// Package listener adapts test-run callbacks to the testbed lifecycle.
//
// Only the root suite drives deployment and release; nested suites share
// the root's testbed session. Before each test the listener checks the
// test's env_req tags against the deployed environment and answers with a
// SkipExecution when the testbed cannot satisfy them, so an unsuitable
// environment skips tests instead of failing them.
package listener
