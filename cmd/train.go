package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/deepself/deepself-cli/internal/api"
	"github.com/deepself/deepself-cli/internal/clierr"
	"github.com/deepself/deepself-cli/internal/document"
	"github.com/deepself/deepself-cli/internal/output"
	"github.com/deepself/deepself-cli/internal/provider"
	"github.com/deepself/deepself-cli/internal/session"
)

// TrainCmd groups the training commands
type TrainCmd struct {
	Document    TrainDocumentCmd    `cmd:"" help:"Train a model with a document"`
	Interactive TrainInteractiveCmd `cmd:"" help:"Interactive training room"`
	Room        TrainRoomCmd        `cmd:"" help:"Stateful training room commands for agents"`
}

// TrainDocumentCmd submits a document
type TrainDocumentCmd struct {
	ModelID     string `arg:"" name:"model-id" help:"Model ID to train"`
	Label       string `help:"Label for the training document"`
	Perspective string `help:"Perspective: first-person or third-person"`
	File        string `short:"f" placeholder:"PATH" help:"Read the document from a file instead of stdin"`
	NoExpand    bool   `help:"Do not replace [[path]] references with file contents"`
}

func (c *TrainDocumentCmd) Run(ctx *Context) error {
	if err := validateID("Model ID", c.ModelID); err != nil {
		return err
	}
	if c.Label == "" {
		return clierr.Usage("--label is required")
	}
	if c.Perspective == "" {
		return clierr.Usage("--perspective is required (first-person or third-person)")
	}
	perspective := api.Perspective(c.Perspective)
	if !perspective.Valid() {
		return clierr.Usage("--perspective must be either %q or %q", api.FirstPerson, api.ThirdPerson)
	}

	doc, err := c.load(ctx)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("document loaded", "source", doc.Source, "tokens", doc.Tokens())
	for _, inc := range doc.Includes {
		if inc.Skipped != "" {
			ctx.Out.Warn("skipped %s: %s", inc.Path, inc.Skipped)
		} else {
			ctx.Logger.Debug("included file", "path", inc.Path, "tokens", inc.Tokens)
		}
	}

	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}
	resp, err := client.TrainDocument(ctx, c.ModelID, api.TrainDocumentRequest{
		Content:     doc.Text,
		Label:       c.Label,
		Perspective: perspective,
	})
	if err != nil {
		return err
	}

	return ctx.Out.Result(resp, func() {
		ctx.Out.Success("Document training completed!")
		ctx.Out.Blank()
		ctx.Out.Pairs([]output.Pair{
			{Key: "Document ID", Value: resp.DocumentID},
			{Key: "Status", Value: resp.Status},
		})
		ctx.Out.Blank()
		printStats(ctx.Out, resp.Stats)
	})
}

func (c *TrainDocumentCmd) load(ctx *Context) (*document.Document, error) {
	opts := document.Options{Expand: !c.NoExpand}
	if c.File != "" {
		return document.FromFile(c.File, opts)
	}

	if ctx.Prompt.Interactive() {
		ctx.Out.Info("Reading from stdin... (Press Ctrl+D when done)")
	}
	return document.FromReader(ctx.Stdin, document.Stdin, opts)
}

// TrainInteractiveCmd runs a training conversation and finalizes the room
type TrainInteractiveCmd struct {
	ModelID    string `arg:"" name:"model-id" help:"Model ID to train"`
	Label      string `help:"Label for the training session"`
	Transcript string `placeholder:"FILE" help:"Write the conversation to FILE as markdown when the session ends"`
}

func (c *TrainInteractiveCmd) Run(ctx *Context) error {
	if err := validateID("Model ID", c.ModelID); err != nil {
		return err
	}
	if c.Label == "" {
		return clierr.Usage("--label is required")
	}

	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}
	created, err := client.CreateRoom(ctx, c.ModelID, c.Label)
	if err != nil {
		return err
	}
	room := session.NewRoom(created.RoomID, c.Label, c.ModelID)
	ctx.Logger.Debug("training room created", "room_id", room.ID(), "model", room.TargetModel)

	ctx.Out.Success("Training room created: %s", room.ID())
	ctx.Out.Blank()
	ctx.Out.Info("Type your messages below. Type \"done\" to finish training.")
	ctx.Out.Blank()

	route := provider.Route{Model: c.ModelID, Shape: provider.ShapeCompletion}
	sess := session.NewTraining(
		provider.NewResponder(client, route, provider.WithRoom(room.ID())),
		session.WithPrompt(ctx.Out.SpeakerPrompt()),
		session.WithLogger(ctx.Logger),
	)

	conv := ctx.Out.Conversation()
	conv.Greeting(session.Message{Role: session.RoleAssistant, Content: session.Greeting})

	runErr := runConversation(ctx, sess, conv)

	if c.Transcript != "" {
		if err := session.WriteTranscript(c.Transcript, "Training: "+c.Label, sess.History()); err != nil {
			ctx.Out.Warn("%v", err)
		}
	}

	ctx.Out.Blank()
	ctx.Out.Info("Finalizing training room...")

	// The room is closed even after an interrupt
	stats, err := room.Finalize(context.WithoutCancel(ctx), client)
	if err != nil {
		return fmt.Errorf("failed to finalize training room %s: %w", room.ID(), err)
	}
	if runErr != nil {
		return runErr
	}

	return ctx.Out.Result(stats, func() {
		ctx.Out.Blank()
		ctx.Out.Success("Training room finalized!")
		ctx.Out.Blank()
		printStats(ctx.Out, stats.Stats)
	})
}

// TrainRoomCmd groups the agent-style room commands
type TrainRoomCmd struct {
	Begin   TrainRoomBeginCmd   `cmd:"" help:"Begin a training room"`
	Respond TrainRoomRespondCmd `cmd:"" help:"Send one answer to a training room"`
	End     TrainRoomEndCmd     `cmd:"" help:"Finalize a training room"`
}

// TrainRoomBeginCmd opens a room
type TrainRoomBeginCmd struct {
	ModelID string `arg:"" name:"model-id" help:"Model ID to train"`
	Label   string `help:"Label for the training session"`
}

func (c *TrainRoomBeginCmd) Run(ctx *Context) error {
	if err := validateID("Model ID", c.ModelID); err != nil {
		return err
	}
	if c.Label == "" {
		return clierr.Usage("--label is required")
	}

	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}
	resp, err := client.CreateRoom(ctx, c.ModelID, c.Label)
	if err != nil {
		return err
	}

	return ctx.Out.Result(resp, func() {
		ctx.Out.Success("Training room created: %s", resp.RoomID)
		ctx.Out.Blank()
		ctx.Out.Pairs([]output.Pair{
			{Key: "Room ID", Value: resp.RoomID},
			{Key: "Status", Value: resp.Status},
		})
		ctx.Out.Info("Use this room_id with \"train room respond\" to continue training")
	})
}

// TrainRoomRespondCmd sends one answer and returns the next question
type TrainRoomRespondCmd struct {
	RoomID string `arg:"" name:"room-id" help:"Training room ID"`
	Answer string `help:"Your answer to the question"`
	Model  string `help:"Model ID"`
}

type respondResult struct {
	RoomID       string `json:"room_id"`
	NextQuestion string `json:"next_question"`
	FinishReason string `json:"finish_reason"`
}

func (c *TrainRoomRespondCmd) Run(ctx *Context) error {
	if err := validateID("Room ID", c.RoomID); err != nil {
		return err
	}
	if c.Answer == "" {
		return clierr.Usage("--answer is required")
	}
	if c.Model == "" {
		return clierr.Usage("--model is required (model ID)")
	}

	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}
	route := provider.Route{Model: c.Model, Shape: provider.ShapeCompletion}
	reply, err := provider.NewResponder(client, route, provider.WithRoom(c.RoomID)).
		Respond(ctx, []session.Message{{Role: session.RoleUser, Content: c.Answer}})
	if err != nil {
		return err
	}

	result := respondResult{
		RoomID:       c.RoomID,
		NextQuestion: reply.Message.Content,
		FinishReason: reply.FinishReason,
	}
	return ctx.Out.Result(result, func() {
		ctx.Out.Pairs([]output.Pair{
			{Key: "Room ID", Value: result.RoomID},
			{Key: "Next Question", Value: result.NextQuestion},
			{Key: "Finish Reason", Value: output.Or(result.FinishReason)},
		})
	})
}

// TrainRoomEndCmd finalizes a room by id
type TrainRoomEndCmd struct {
	RoomID string `arg:"" name:"room-id" help:"Training room ID"`
}

func (c *TrainRoomEndCmd) Run(ctx *Context) error {
	if err := validateID("Room ID", c.RoomID); err != nil {
		return err
	}
	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}
	resp, err := client.FinalizeRoom(ctx, c.RoomID)
	if err != nil {
		return err
	}

	return ctx.Out.Result(resp, func() {
		ctx.Out.Success("Training room finalized!")
		ctx.Out.Blank()
		printStats(ctx.Out, resp.Stats)
	})
}

func printStats(out *output.Printer, s api.ExtractionStats) {
	out.Heading("Extraction Stats:")
	out.Pairs([]output.Pair{
		{Key: "  Epsilons", Value: output.Count(int64(s.EpsilonsProcessed))},
		{Key: "  Betas", Value: output.Count(int64(s.BetasProcessed))},
		{Key: "  Deltas", Value: output.Count(int64(s.DeltasProcessed))},
		{Key: "  Alphas", Value: output.Count(int64(s.AlphasProcessed))},
	})
}

// runConversation drives sess over the terminal. It reports a reader failure,
// or the context error when the run was interrupted.
func runConversation(ctx *Context, sess *session.Session, conv session.Display) error {
	historyPath := ""
	if ctx.Prefs.History {
		historyPath = ctx.HistoryPath
	}
	lines := ctx.Prompt.Lines(historyPath)
	err := sess.Run(ctx, lines, conv)
	if cerr := lines.Close(); cerr != nil {
		ctx.Logger.Warn("could not save input history", "error", cerr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return ctx.Err()
}
