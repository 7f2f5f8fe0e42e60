// Package lifecycle owns the deployment lifecycle of the testbed: the
// one-shot deploy sequence at suite start, the per-test environment gate
// driven by env_req tags, and the release at suite end.
//
// The hook order during deploy is fixed: configure, reserve devices, parse
// config, register devices, setup environment. Deploy drives setup to
// completion; a failing hook leaves the coordinator undeployed. Release is
// best-effort and never raises; a teardown failure must not change the
// outcome of a run.
package lifecycle
