// Command slackctl calls the Web API from the shell.
//
// The token and connection settings come from the environment (SLACK_TOKEN,
// SLACK_BASE_URL, ...) or from a YAML/TOML file passed with --config.
// Results are printed to stdout as JSON; logs go to stderr. Each run is one
// trace; pass --trace-id to join calls from several runs under one trace.
//
//	slackctl auth
//	slackctl post --channel C024BE91L --text "deploy done"
//	slackctl users
//	slackctl history --channel C024BE91L --limit 20
package main
