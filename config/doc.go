// Package config loads ghtools configuration.
//
// Values come from built-in defaults, an optional YAML file and GHTOOLS_*
// environment variables, in that order. Credentials (github.token, the JWT
// secret and API keys) then pass through a secret.Resolver, so they may be
// written as ${VAR} or secretref:<provider>:<ref>. github.token defaults to
// ${GITHUB_TOKEN}.
package config
