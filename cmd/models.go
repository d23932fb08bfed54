package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/deepself/deepself-cli/internal/api"
	"github.com/deepself/deepself-cli/internal/clierr"
	"github.com/deepself/deepself-cli/internal/output"
)

// ModelsCmd manages models
type ModelsCmd struct {
	List      ModelsListCmd      `cmd:"" help:"List your models"`
	Get       ModelsGetCmd       `cmd:"" help:"Show one model"`
	Create    ModelsCreateCmd    `cmd:"" help:"Create a model"`
	Update    ModelsUpdateCmd    `cmd:"" help:"Update a model"`
	Delete    ModelsDeleteCmd    `cmd:"" help:"Delete a model"`
	Supported ModelsSupportedCmd `cmd:"" help:"List LLMs usable as <username>@<model>"`
}

// ModelsListCmd lists models
type ModelsListCmd struct{}

func (c *ModelsListCmd) Run(ctx *Context) error {
	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}
	models, err := client.ListModels(ctx)
	if err != nil {
		return err
	}
	if models == nil {
		models = []api.Model{}
	}

	return ctx.Out.Result(models, func() {
		if len(models) == 0 {
			ctx.Out.Info("No models found. Create one with: deepself models create <username>")
			return
		}
		rows := make([][]string, 0, len(models))
		for _, m := range models {
			rows = append(rows, []string{
				m.ID, m.OwnedBy, m.DisplayName(), output.Date(m.Created), strconv.Itoa(len(m.BasicFacts)),
			})
		}
		ctx.Out.Table([]string{"Model ID", "Owner", "Name", "Created", "Epsilons"}, rows)
		ctx.Out.Blank()
		ctx.Out.Info("Total: %d model(s)", len(models))
	})
}

// ModelsGetCmd shows one model
type ModelsGetCmd struct {
	ModelID string `arg:"" name:"model-id" help:"Model ID"`
}

func (c *ModelsGetCmd) Run(ctx *Context) error {
	if err := validateID("Model ID", c.ModelID); err != nil {
		return err
	}
	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}
	model, err := client.GetModel(ctx, c.ModelID)
	if err != nil {
		return err
	}

	return ctx.Out.Result(model, func() {
		ctx.Out.Pairs(modelPairs(model, true))
	})
}

// ModelsCreateCmd creates a model
type ModelsCreateCmd struct {
	Username string   `arg:"" help:"Username for the model (must start with \"deep-\")"`
	Name     string   `help:"Display name"`
	Tools    []string `sep:"," help:"Tools to enable"`
	Fact     []string `name:"fact" sep:"none" placeholder:"KEY:VALUE" help:"Initial epsilon, repeatable"`
}

func (c *ModelsCreateCmd) Run(ctx *Context) error {
	if err := validateUsername(c.Username); err != nil {
		return err
	}
	facts, err := parseFacts(c.Fact)
	if err != nil {
		return err
	}
	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}

	model, err := client.CreateModel(ctx, api.CreateModelRequest{
		Username:     c.Username,
		Name:         c.Name,
		BasicFacts:   facts,
		DefaultTools: c.Tools,
	})
	if err != nil {
		return err
	}

	return ctx.Out.Result(model, func() {
		ctx.Out.Success("Model created: %s", model.ID)
		ctx.Out.Blank()
		ctx.Out.Pairs(modelPairs(model, false))
	})
}

// ModelsUpdateCmd applies a partial update
type ModelsUpdateCmd struct {
	ModelID string   `arg:"" name:"model-id" help:"Model ID"`
	Name    string   `help:"New display name"`
	AddFact []string `name:"add-fact" sep:"none" placeholder:"KEY:VALUE" help:"Add an epsilon, repeatable"`
	Tools   []string `sep:"," help:"Replace the tools list"`
}

func (c *ModelsUpdateCmd) Run(ctx *Context) error {
	if err := validateID("Model ID", c.ModelID); err != nil {
		return err
	}
	facts, err := parseFacts(c.AddFact)
	if err != nil {
		return err
	}
	req := api.UpdateModelRequest{Name: c.Name, BasicFacts: facts, DefaultTools: c.Tools}
	if req.Empty() {
		return clierr.Usage("No updates specified. Use --name, --add-fact, or --tools")
	}
	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}

	model, err := client.UpdateModel(ctx, c.ModelID, req)
	if err != nil {
		return err
	}

	return ctx.Out.Result(model, func() {
		ctx.Out.Success("Model updated: %s", model.ID)
		ctx.Out.Blank()
		ctx.Out.Pairs(modelPairs(model, true))
	})
}

// ModelsDeleteCmd deletes a model after confirmation
type ModelsDeleteCmd struct {
	ModelID string `arg:"" name:"model-id" help:"Model ID"`
	Force   bool   `short:"f" help:"Skip the confirmation prompt"`
}

type deleteResult struct {
	Deleted bool   `json:"deleted"`
	ModelID string `json:"model_id"`
}

func (c *ModelsDeleteCmd) Run(ctx *Context) error {
	if err := validateID("Model ID", c.ModelID); err != nil {
		return err
	}
	if !c.Force {
		q := fmt.Sprintf("Are you sure you want to delete model %q? This cannot be undone.", c.ModelID)
		if !ctx.Prompt.Confirm(q, false) {
			return ctx.Out.Result(deleteResult{Deleted: false, ModelID: c.ModelID}, func() {
				ctx.Out.Info("Deletion cancelled")
			})
		}
	}
	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}
	if err := client.DeleteModel(ctx, c.ModelID); err != nil {
		return err
	}

	return ctx.Out.Result(deleteResult{Deleted: true, ModelID: c.ModelID}, func() {
		ctx.Out.Success("Model deleted: %s", c.ModelID)
	})
}

// ModelsSupportedCmd lists the LLMs the API can route to. No key is required.
type ModelsSupportedCmd struct{}

func (c *ModelsSupportedCmd) Run(ctx *Context) error {
	models, err := ctx.PublicClient().SupportedModels(ctx)
	if err != nil {
		return err
	}
	if models == nil {
		models = []api.SupportedModel{}
	}

	return ctx.Out.Result(api.SupportedModelsResponse{Models: models}, func() {
		if len(models) == 0 {
			ctx.Out.Info("No supported models reported")
			return
		}
		rows := make([][]string, 0, len(models))
		for _, m := range models {
			rows = append(rows, []string{m.Model, m.Provider})
		}
		ctx.Out.Table([]string{"Model", "Provider"}, rows)
		ctx.Out.Blank()
		ctx.Out.Info("Chat with one using: deepself chat <username>@<model>")
	})
}

func modelPairs(m *api.Model, details bool) []output.Pair {
	pairs := []output.Pair{
		{Key: "Model ID", Value: m.ID},
		{Key: "Owner", Value: m.OwnedBy},
		{Key: "Name", Value: m.DisplayName()},
	}
	if !details {
		return pairs
	}
	return append(pairs,
		output.Pair{Key: "Created", Value: output.Date(m.Created)},
		output.Pair{Key: "Tools", Value: formatTools(m.DefaultTools)},
		output.Pair{Key: "Epsilons", Value: formatFacts(m.BasicFacts)},
	)
}

func formatTools(tools []string) string {
	if len(tools) == 0 {
		return "<none>"
	}
	return strings.Join(tools, ", ")
}

// formatFacts lists facts in key order
func formatFacts(facts map[string]api.Fact) string {
	if len(facts) == 0 {
		return "<none>"
	}
	keys := make([]string, 0, len(facts))
	for k := range facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+facts[k].Value)
	}
	return strings.Join(parts, ", ")
}
