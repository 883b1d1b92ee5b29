// Package config loads the axiom gate configuration from the `gate:` section
// of config.yaml.
//
// Secrets never live in the file. CommanderSigilEnv, SaltEnv and IdentityEnv
// name environment variables (COMMANDER_SIGIL, SERAPHIM_SALT, GITHUB_USERNAME
// by default) that CommanderSigil(), Salt() and Identity() resolve at call
// time. LoadEnv pulls an optional .env file into the environment first.
package config
