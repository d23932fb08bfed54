package cmd

import (
	"fmt"

	"github.com/deepself/deepself-cli/internal/config"
	"github.com/deepself/deepself-cli/internal/output"
)

// CfgCmd manages CLI preferences
type CfgCmd struct {
	Show  CfgShowCmd  `cmd:"" default:"1" help:"Show current preferences (default)"`
	Get   CfgGetCmd   `cmd:"" help:"Print one preference"`
	Set   CfgSetCmd   `cmd:"" help:"Change one preference"`
	Reset CfgResetCmd `cmd:"" help:"Restore the default preferences"`
}

type prefsResult struct {
	Path        string         `json:"path"`
	Preferences *config.Config `json:"preferences"`
}

// CfgShowCmd shows current preferences
type CfgShowCmd struct{}

func (c *CfgShowCmd) Run(ctx *Context) error {
	cfg := ctx.Prefs
	return ctx.Out.Result(prefsResult{Path: ctx.PrefsPath, Preferences: cfg}, func() {
		ctx.Out.Line("Current preferences (%s):", ctx.PrefsPath)
		ctx.Out.Blank()
		pairs := make([]output.Pair, 0, len(config.Keys()))
		for _, key := range config.Keys() {
			v, _ := cfg.Get(key)
			pairs = append(pairs, output.Pair{Key: key, Value: v})
		}
		ctx.Out.Pairs(pairs)
	})
}

// CfgGetCmd prints one preference
type CfgGetCmd struct {
	Key string `arg:"" help:"Preference name"`
}

type prefResult struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (c *CfgGetCmd) Run(ctx *Context) error {
	v, err := ctx.Prefs.Get(c.Key)
	if err != nil {
		return usageError(err)
	}
	if !ctx.Out.Machine() {
		ctx.Out.Line("%s", v)
		return nil
	}
	return ctx.Out.Result(prefResult{Key: c.Key, Value: v}, nil)
}

// CfgSetCmd sets one preference
type CfgSetCmd struct {
	Key   string `arg:"" help:"Preference name"`
	Value string `arg:"" help:"New value"`
}

func (c *CfgSetCmd) Run(ctx *Context) error {
	cfg := ctx.Prefs
	if err := cfg.Set(c.Key, c.Value); err != nil {
		return usageError(err)
	}
	if err := cfg.SaveFile(ctx.PrefsPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	v, _ := cfg.Get(c.Key)
	return ctx.Out.Result(prefResult{Key: c.Key, Value: v}, func() {
		ctx.Out.Success("%s set to: %s", c.Key, v)
	})
}

// CfgResetCmd restores defaults
type CfgResetCmd struct{}

func (c *CfgResetCmd) Run(ctx *Context) error {
	cfg := config.Defaults()
	if err := cfg.SaveFile(ctx.PrefsPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	ctx.Prefs = cfg

	return ctx.Out.Result(prefsResult{Path: ctx.PrefsPath, Preferences: cfg}, func() {
		ctx.Out.Success("Preferences reset to defaults")
	})
}
