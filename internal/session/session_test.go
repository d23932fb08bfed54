package session

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepself/deepself-cli/internal/api"
)

// scriptedReader returns lines in order, then io.EOF
type scriptedReader struct {
	lines   []string
	prompts []string
	onRead  func(n int)
}

func (r *scriptedReader) ReadLine(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if r.onRead != nil {
		r.onRead(len(r.prompts))
	}
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

// fakeResponder echoes the last message or fails on demand
type fakeResponder struct {
	calls   [][]Message
	failOn  map[int]error
	replies []string
}

func (f *fakeResponder) Respond(ctx context.Context, history []Message) (Reply, error) {
	f.calls = append(f.calls, history)
	if err, ok := f.failOn[len(f.calls)]; ok {
		return Reply{}, err
	}
	content := "echo: " + history[len(history)-1].Content
	if len(f.replies) > 0 {
		content, f.replies = f.replies[0], f.replies[1:]
	}
	return Reply{Message: Message{Role: RoleAssistant, Content: content}, FinishReason: "stop"}, nil
}

type recordingDisplay struct {
	replies []Reply
	errs    []error
}

func (d *recordingDisplay) Assistant(r Reply) { d.replies = append(d.replies, r) }
func (d *recordingDisplay) TurnError(err error) { d.errs = append(d.errs, err) }

func TestRunSkipsBlankLinesAndExits(t *testing.T) {
	responder := &fakeResponder{}
	display := &recordingDisplay{}
	s := NewChat(responder)

	err := s.Run(context.Background(), &scriptedReader{lines: []string{"hello", "", "   ", "exit", "never"}}, display)
	require.NoError(t, err)

	require.Len(t, responder.calls, 1)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "hello"}}, responder.calls[0])
	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "echo: hello"},
	}, s.History())
	assert.Len(t, display.replies, 1)
	assert.Equal(t, Closed, s.State())
}

func TestExitWordsAreCaseInsensitive(t *testing.T) {
	chat := NewChat(&fakeResponder{})
	assert.True(t, chat.IsExit("QUIT"))
	assert.True(t, chat.IsExit("Exit"))
	assert.False(t, chat.IsExit("done"))

	training := NewTraining(&fakeResponder{})
	assert.True(t, training.IsExit("DONE"))
	assert.False(t, training.IsExit("exit"))
}

func TestEOFCloses(t *testing.T) {
	responder := &fakeResponder{}
	s := NewChat(responder)

	require.NoError(t, s.Run(context.Background(), &scriptedReader{lines: []string{"one"}}, &recordingDisplay{}))
	assert.Len(t, responder.calls, 1)
	assert.Equal(t, Closed, s.State())
}

func TestTurnFailureKeepsHistoryAndContinues(t *testing.T) {
	responder := &fakeResponder{failOn: map[int]error{1: errors.New("upstream down")}}
	display := &recordingDisplay{}
	s := NewChat(responder)

	err := s.Run(context.Background(), &scriptedReader{lines: []string{"first", "second", "quit"}}, display)
	require.NoError(t, err)

	require.Len(t, display.errs, 1)
	assert.EqualError(t, display.errs[0], "upstream down")
	require.Len(t, display.replies, 1)

	// The failed user message stays and the next call sees it
	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "first"},
		{Role: RoleUser, Content: "second"},
	}, responder.calls[1])
	assert.Len(t, s.History(), 3)
}

func TestHistoryGrowsMonotonically(t *testing.T) {
	responder := &fakeResponder{}
	s := NewChat(responder)

	require.NoError(t, s.Run(context.Background(), &scriptedReader{lines: []string{"a", "b", "c"}}, &recordingDisplay{}))

	require.Len(t, responder.calls, 3)
	for i := 1; i < len(responder.calls); i++ {
		prev, cur := responder.calls[i-1], responder.calls[i]
		require.Greater(t, len(cur), len(prev))
		assert.Equal(t, prev, cur[:len(prev)])
	}
}

func TestTrainingSeedsGreeting(t *testing.T) {
	responder := &fakeResponder{}
	s := NewTraining(responder)

	require.NoError(t, s.Run(context.Background(), &scriptedReader{lines: []string{"I grew up in Porto", "done"}}, &recordingDisplay{}))

	require.Len(t, responder.calls, 1)
	assert.Equal(t, []Message{
		{Role: RoleAssistant, Content: Greeting},
		{Role: RoleUser, Content: "I grew up in Porto"},
	}, responder.calls[0])
}

func TestCancellationCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	responder := &fakeResponder{}
	reader := &scriptedReader{lines: []string{"a", "b", "c"}}
	reader.onRead = func(n int) {
		if n == 2 {
			cancel()
		}
	}

	s := NewChat(responder)
	require.NoError(t, s.Run(ctx, reader, &recordingDisplay{}))
	assert.Equal(t, Closed, s.State())
	assert.LessOrEqual(t, len(responder.calls), 2)
}

func TestReaderFailureIsReturned(t *testing.T) {
	s := NewChat(&fakeResponder{})
	err := s.Run(context.Background(), readerFunc(func(string) (string, error) {
		return "", errors.New("tty gone")
	}), &recordingDisplay{})
	assert.ErrorContains(t, err, "tty gone")
}

type readerFunc func(string) (string, error)

func (f readerFunc) ReadLine(p string) (string, error) { return f(p) }

func TestSendAfterCloseFails(t *testing.T) {
	s := NewChat(&fakeResponder{})
	require.NoError(t, s.Run(context.Background(), &scriptedReader{}, &recordingDisplay{}))

	_, err := s.Send(context.Background(), "late")
	assert.Error(t, err)
}

func TestSingleShot(t *testing.T) {
	responder := &fakeResponder{replies: []string{"hi there"}}

	reply, err := SingleShot(context.Background(), responder, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply.Message.Content)
	assert.Equal(t, "stop", reply.FinishReason)
	require.Len(t, responder.calls, 1)
	assert.Len(t, responder.calls[0], 1)
}

type countingFinalizer struct {
	calls int
	rooms []string
	err   error
}

func (f *countingFinalizer) FinalizeRoom(ctx context.Context, roomID string) (*api.FinalizeRoomResponse, error) {
	f.calls++
	f.rooms = append(f.rooms, roomID)
	if f.err != nil {
		return nil, f.err
	}
	return &api.FinalizeRoomResponse{Status: "finalized", Stats: api.ExtractionStats{AlphasProcessed: 2}}, nil
}

func TestRoomFinalizesOnce(t *testing.T) {
	room := NewRoom("room-1", "childhood", "deep-bot")
	f := &countingFinalizer{}

	resp, err := room.Finalize(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Stats.AlphasProcessed)
	assert.True(t, room.Finalized())

	_, err = room.Finalize(context.Background(), f)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, []string{"room-1"}, f.rooms)
}

func TestRoomKeepsServerID(t *testing.T) {
	room := NewRoom("room-7", "school", "deep-bot")
	room.Label = "renamed"
	assert.Equal(t, "room-7", room.ID())

	f := &countingFinalizer{}
	_, err := room.Finalize(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"room-7"}, f.rooms)
}

func TestRoomFailedFinalizeIsNotRetried(t *testing.T) {
	room := NewRoom("room-1", "childhood", "deep-bot")
	f := &countingFinalizer{err: errors.New("boom")}

	_, err := room.Finalize(context.Background(), f)
	require.Error(t, err)
	_, err = room.Finalize(context.Background(), f)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
	assert.Equal(t, 1, f.calls)
}

func TestWriteTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.md")
	err := WriteTranscript(path, "deep-bot", []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "**hi**"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# deep-bot\n\n## [1] Human\n\nhello\n\n## [2] AI\n\n````markdown\n**hi**\n````\n", string(data))
}
