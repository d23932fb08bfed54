package cmd

import (
	"github.com/alecthomas/kong"
)

// Globals are the flags every command accepts
type Globals struct {
	JSON          bool   `help:"Output results as JSON"`
	Quiet         bool   `short:"q" help:"Suppress informational output"`
	Output        string `short:"o" placeholder:"FORMAT" help:"Output format: human, json or yaml"`
	Debug         bool   `help:"Log requests to stderr (also DEBUG=1)"`
	NoInteractive bool   `help:"Never prompt; fail or use defaults instead"`
}

// CLI represents the command-line interface
type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Print version and exit"`

	Login  LoginCmd  `cmd:"" help:"Authenticate with an API key"`
	Logout LogoutCmd `cmd:"" help:"Remove the saved API key"`
	Config ConfigCmd `cmd:"" help:"Show the current authentication settings"`

	Models  ModelsCmd  `cmd:"" help:"Manage models"`
	Billing BillingCmd `cmd:"" help:"Balance, usage and subscription"`
	Train   TrainCmd   `cmd:"" help:"Train models"`
	Chat    ChatCmd    `cmd:"" help:"Chat with a model"`
	Keys    KeysCmd    `cmd:"" help:"Manage API keys (requires a session token)"`

	Cfg  CfgCmd     `cmd:"" help:"Manage CLI preferences"`
	Info VersionCmd `cmd:"" name:"version" help:"Show version information"`
}

// commandAliases rename kong command paths in result envelopes
var commandAliases = map[string]string{
	"login":             "auth.login",
	"logout":            "auth.logout",
	"config":            "auth.config",
	"train.interactive": "train.room",
}
