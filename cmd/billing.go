package cmd

import (
	"fmt"
	"strings"

	"github.com/deepself/deepself-cli/internal/api"
	"github.com/deepself/deepself-cli/internal/clierr"
	"github.com/deepself/deepself-cli/internal/output"
)

// Plans a subscription can be upgraded to
var upgradePlans = []string{"standard", "pro"}

// BillingCmd groups the billing commands
type BillingCmd struct {
	Balance      BillingBalanceCmd      `cmd:"" help:"Show your credit balance"`
	Usage        BillingUsageCmd        `cmd:"" help:"Show usage history"`
	Subscription BillingSubscriptionCmd `cmd:"" help:"Show your subscription"`
	Upgrade      BillingUpgradeCmd      `cmd:"" help:"Start an upgrade checkout"`
	Cancel       BillingCancelCmd       `cmd:"" help:"Cancel your subscription"`
}

// BillingBalanceCmd shows the balance
type BillingBalanceCmd struct{}

func (c *BillingBalanceCmd) Run(ctx *Context) error {
	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}
	balance, err := client.Balance(ctx)
	if err != nil {
		return err
	}

	return ctx.Out.Result(balance, func() {
		status := "Active"
		if balance.Frozen {
			status = "Frozen"
		}
		ctx.Out.Pairs([]output.Pair{
			{Key: "Balance", Value: fmt.Sprintf("$%.4f", balance.BalanceUSD)},
			{Key: "Status", Value: status},
			{Key: "IAM ID", Value: balance.IAMID},
		})
		if balance.Frozen {
			ctx.Out.Blank()
			ctx.Out.Warn("Your account is frozen. Please top up to continue using the API.")
		}
	})
}

// BillingUsageCmd pages through usage history
type BillingUsageCmd struct {
	Page  int  `default:"1" help:"Page number"`
	Limit *int `help:"Entries per page, 1-100 (default from preferences)"`
}

func (c *BillingUsageCmd) Run(ctx *Context) error {
	limit := ctx.Prefs.UsageLimit
	if c.Limit != nil {
		limit = *c.Limit
	}
	if c.Page < 1 {
		return clierr.Usage("--page must be at least 1")
	}
	if limit < 1 || limit > 100 {
		return clierr.Usage("--limit must be between 1 and 100")
	}

	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}
	usage, err := client.Usage(ctx, c.Page, limit)
	if err != nil {
		return err
	}
	if usage.Entries == nil {
		usage.Entries = []api.UsageEntry{}
	}

	return ctx.Out.Result(usage, func() {
		if len(usage.Entries) == 0 {
			ctx.Out.Info("No usage history found")
			return
		}
		rows := make([][]string, 0, len(usage.Entries))
		for _, e := range usage.Entries {
			rows = append(rows, []string{
				output.DateString(e.CreatedAt),
				e.ModelUsername,
				e.LLMModel,
				output.Count(e.InputTokens),
				output.Count(e.OutputTokens),
				fmt.Sprintf("$%.6f", e.TotalDeductedUSD),
			})
		}
		ctx.Out.Table([]string{"Date", "Model", "LLM", "In Tokens", "Out Tokens", "Cost (USD)"}, rows)
		ctx.Out.Blank()
		ctx.Out.Info("Page %d of %d (Total: %d entries)", usage.Page, usage.Pages(), usage.Total)
	})
}

// BillingSubscriptionCmd shows the plan
type BillingSubscriptionCmd struct{}

func (c *BillingSubscriptionCmd) Run(ctx *Context) error {
	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}
	sub, err := client.Subscription(ctx)
	if err != nil {
		return err
	}

	return ctx.Out.Result(sub, func() {
		status := sub.Status
		if status == "active" {
			status = "Active"
		}
		renewal := "N/A"
		if sub.CurrentPeriodEnd != nil {
			renewal = output.DateString(*sub.CurrentPeriodEnd)
		}
		ctx.Out.Pairs([]output.Pair{
			{Key: "Plan", Value: strings.ToUpper(sub.Plan)},
			{Key: "Status", Value: status},
			{Key: "Models", Value: fmt.Sprintf("%d / %d", sub.IAMCount, sub.IAMLimit)},
			{Key: "Renewal", Value: renewal},
		})
		if sub.IAMLimit > 0 && sub.IAMCount >= sub.IAMLimit {
			ctx.Out.Blank()
			ctx.Out.Warn("You've reached your model limit. Upgrade to create more models.")
		}
	})
}

// BillingUpgradeCmd starts a checkout for a plan
type BillingUpgradeCmd struct {
	Plan string `arg:"" help:"Plan to upgrade to: standard or pro"`
}

func (c *BillingUpgradeCmd) Run(ctx *Context) error {
	plan := strings.ToLower(c.Plan)
	if plan != upgradePlans[0] && plan != upgradePlans[1] {
		return clierr.Usage("Plan must be either %q or %q", upgradePlans[0], upgradePlans[1])
	}

	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}
	checkout, err := client.Checkout(ctx, plan)
	if err != nil {
		return err
	}

	return ctx.Out.Result(checkout, func() {
		ctx.Out.Success("Checkout session created!")
		ctx.Out.Blank()
		ctx.Out.Line("Visit this URL to complete your upgrade:")
		ctx.Out.Line("%s", checkout.CheckoutURL)
	})
}

// BillingCancelCmd cancels the subscription after confirmation
type BillingCancelCmd struct {
	Force bool `short:"f" help:"Skip the confirmation prompt"`
}

type cancelResult struct {
	Cancelled bool `json:"cancelled"`
}

func (c *BillingCancelCmd) Run(ctx *Context) error {
	if !c.Force {
		q := "Are you sure you want to cancel your subscription? You will keep access until the end of the billing period."
		if !ctx.Prompt.Confirm(q, false) {
			return ctx.Out.Result(cancelResult{Cancelled: false}, func() {
				ctx.Out.Info("Cancellation aborted")
			})
		}
	}

	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}
	resp, err := client.CancelSubscription(ctx)
	if err != nil {
		return err
	}

	return ctx.Out.Result(resp, func() {
		ctx.Out.Success("Subscription cancelled")
		if resp.CanceledAtPeriodEnd && resp.CurrentPeriodEnd != nil {
			ctx.Out.Blank()
			ctx.Out.Labeled("Your subscription will remain active until", output.DateString(*resp.CurrentPeriodEnd))
		}
	})
}
