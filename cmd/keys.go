package cmd

import (
	"fmt"
	"strings"

	"github.com/deepself/deepself-cli/internal/api"
	"github.com/deepself/deepself-cli/internal/clierr"
	"github.com/deepself/deepself-cli/internal/credentials"
	"github.com/deepself/deepself-cli/internal/output"
)

// KeysCmd manages API keys. These endpoints take a session token, not an API key.
type KeysCmd struct {
	List   KeysListCmd   `cmd:"" help:"List API keys"`
	Create KeysCreateCmd `cmd:"" help:"Create an API key"`
	Revoke KeysRevokeCmd `cmd:"" help:"Revoke an API key"`
}

// SessionToken is the flag shared by the key commands
type SessionToken struct {
	Token string `placeholder:"JWT" help:"Session token (defaults to $DEEPSELF_JWT)"`
}

// client checks the token locally and returns a client that bears it
func (s SessionToken) client(ctx *Context) (*api.Client, error) {
	token := s.Token
	if token == "" {
		token = ctx.Getenv(credentials.EnvSessionToken)
	}
	info, err := credentials.InspectToken(token, ctx.Now())
	if err != nil {
		return nil, err
	}
	ctx.Logger.Debug("session token", "subject", info.Subject, "expires", info.ExpiresAt)
	return ctx.ClientWithKey(token), nil
}

// KeysListCmd lists keys
type KeysListCmd struct {
	SessionToken
}

func (c *KeysListCmd) Run(ctx *Context) error {
	client, err := c.client(ctx)
	if err != nil {
		return err
	}
	keys, err := client.ListAPIKeys(ctx)
	if err != nil {
		return err
	}
	if keys == nil {
		keys = []api.APIKey{}
	}

	return ctx.Out.Result(keys, func() {
		if len(keys) == 0 {
			ctx.Out.Info("No API keys found. Create one with: deepself keys create <name>")
			return
		}
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{
				k.KeyID, k.Name, k.KeyPrefix + "...", output.Date(k.CreatedAt), output.Ago(k.LastUsedAt),
			})
		}
		ctx.Out.Table([]string{"Key ID", "Name", "Prefix", "Created", "Last Used"}, rows)
	})
}

// KeysCreateCmd mints a key and shows its secret once
type KeysCreateCmd struct {
	SessionToken

	Name string `arg:"" help:"Name for the new key"`
	Save bool   `help:"Save the new key as the CLI's API key"`
}

func (c *KeysCreateCmd) Run(ctx *Context) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return clierr.Usage("key name is required")
	}
	client, err := c.client(ctx)
	if err != nil {
		return err
	}
	created, err := client.CreateAPIKey(ctx, name)
	if err != nil {
		return err
	}

	if c.Save {
		if err := ctx.Store.Save(credentials.Credentials{APIKey: created.APIKey}); err != nil {
			return err
		}
	}

	// Quiet mode prints only the secret so it can be captured by a script
	if ctx.Out.Quiet() && !ctx.Out.Machine() {
		ctx.Out.Line("%s", created.APIKey)
		return nil
	}

	return ctx.Out.Result(created, func() {
		ctx.Out.Success("API key created: %s", created.Name)
		ctx.Out.Blank()
		ctx.Out.Pairs([]output.Pair{
			{Key: "Key ID", Value: created.KeyID},
			{Key: "API Key", Value: created.APIKey},
		})
		ctx.Out.Blank()
		ctx.Out.Warn("Store this key now. It will not be shown again.")
		if c.Save {
			ctx.Out.Info("Saved to %s", ctx.Store.Path)
		}
	})
}

// KeysRevokeCmd revokes a key after confirmation
type KeysRevokeCmd struct {
	SessionToken

	KeyID string `arg:"" name:"key-id" help:"Key ID to revoke"`
	Force bool   `short:"f" help:"Skip the confirmation prompt"`
}

type revokeResult struct {
	Revoked bool   `json:"revoked"`
	KeyID   string `json:"key_id"`
}

func (c *KeysRevokeCmd) Run(ctx *Context) error {
	if err := validateID("Key ID", c.KeyID); err != nil {
		return err
	}
	if !c.Force {
		q := fmt.Sprintf("Revoke API key %q? Clients using it will stop working.", c.KeyID)
		if !ctx.Prompt.Confirm(q, false) {
			return ctx.Out.Result(revokeResult{Revoked: false, KeyID: c.KeyID}, func() {
				ctx.Out.Info("Revocation cancelled")
			})
		}
	}
	client, err := c.client(ctx)
	if err != nil {
		return err
	}
	if err := client.RevokeAPIKey(ctx, c.KeyID); err != nil {
		return err
	}

	return ctx.Out.Result(revokeResult{Revoked: true, KeyID: c.KeyID}, func() {
		ctx.Out.Success("API key revoked: %s", c.KeyID)
	})
}
