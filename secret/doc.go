// Package secret resolves the credentials named in configuration: the
// GitHub token, the JWT signing secret and API keys.
//
// A value is first expanded against the environment (see ExpandEnvStrict),
// so the token can be written as ${GITHUB_TOKEN}. If the result has the
// form secretref:<provider>:<path> it is then looked up through a
// Provider:
//
//	secretref:env:GHTOOLS_API_KEY
//	secretref:file:/run/secrets/github_token
//
// Registry builds a Resolver from the "secrets" configuration section, which
// enables providers by name. The env and file providers are built in.
package secret
