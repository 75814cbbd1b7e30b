// Package config holds the validator configuration model and its loader.
//
// The configuration is a JSON document with two sections. "script" holds
// the run settings: pause durations used as readiness timeouts, the working
// namespace, the directory and names of the probe daemonset manifests and
// the display flags of the report. "testCases" holds one entry per check
// with its description, its reference into the RA2 specification and the
// check specific parameters (thresholds, name lists, exception lists).
//
// Values under "script" can be overridden through VALIDATOR_SCRIPT_*
// environment variables, e.g. VALIDATOR_SCRIPT_PODNAMESPACE.
package config
