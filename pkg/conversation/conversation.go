// Package conversation sequences user submissions, completion requests and
// the typewriter reveal of each reply against one transcript.
//
// A Controller is owned by a single event loop. Submit hands back a Pending
// request that may run on any goroutine; its Result must be passed back to
// Resolve on the owning loop. Reveal ticks work the same way through Advance.
package conversation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"healthchat/pkg/completion"
	"healthchat/pkg/reveal"
	"healthchat/pkg/transcript"

	"github.com/google/uuid"
)

// ErrorReply is the model turn appended when a completion fails.
const ErrorReply = "⚠ 出錯了，請確認 API Key 或網路連線。"

// DefaultWelcome seeds every new conversation.
const DefaultWelcome = "👋 哈囉，我是健康飲食小助手！有關健康飲食的問題都可以問我喔～"

// ErrNotAccepted is returned by Play when Submit rejects the text.
var ErrNotAccepted = errors.New("message not accepted: empty, busy or missing api key")

// State is the controller phase.
type State int

const (
	Idle State = iota
	AwaitingCompletion
	Revealing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingCompletion:
		return "awaiting_completion"
	case Revealing:
		return "revealing"
	default:
		return "unknown"
	}
}

// Options configures a Controller.
type Options struct {
	Welcome           string
	Model             string
	SystemInstruction string
	RevealInterval    time.Duration
}

// Result is the outcome of a Pending request.
type Result struct {
	ID    uint64
	Reply string
	Err   error
}

// Pending is an accepted submission whose completion has not run yet.
type Pending struct {
	ID uint64

	reqCtx context.Context
	run    func(ctx context.Context) (string, error)
}

// Run performs the completion call. It is safe to call from any goroutine
// and never touches controller state. The call is aborted when ctx ends or
// when the controller is reset.
func (p Pending) Run(ctx context.Context) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if p.reqCtx != nil {
		stop := context.AfterFunc(p.reqCtx, cancel)
		defer stop()
	}

	reply, err := p.run(runCtx)
	return Result{ID: p.ID, Reply: reply, Err: err}
}

// Controller owns the transcript and the reveal scheduler.
type Controller struct {
	completer completion.Completer
	store     *transcript.Store
	scheduler *reveal.Scheduler
	opts      Options

	state     State
	partial   string
	seq       uint64
	pendingID uint64
	cancel    context.CancelFunc
	sessionID string
}

// New creates a controller with a freshly seeded transcript.
func New(completer completion.Completer, opts Options) *Controller {
	if opts.Welcome == "" {
		opts.Welcome = DefaultWelcome
	}
	c := &Controller{
		completer: completer,
		store:     transcript.New(),
		scheduler: reveal.New(opts.RevealInterval),
		opts:      opts,
	}
	c.Reset()
	return c
}

// SetCompleter swaps the completion backend, e.g. after the API key changes.
func (c *Controller) SetCompleter(completer completion.Completer) {
	c.completer = completer
}

// Configured reports whether submissions can be accepted.
func (c *Controller) Configured() bool {
	return c.completer != nil && c.completer.Configured()
}

// Submit accepts text for completion. Empty text, a busy controller or a
// missing credential make it a no-op that returns false.
func (c *Controller) Submit(text string) (Pending, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Pending{}, false
	}
	if c.state != Idle {
		slog.Debug("conversation_submit_busy", "session_id", c.sessionID, "state", c.state.String())
		return Pending{}, false
	}
	if !c.Configured() {
		slog.Debug("conversation_submit_unconfigured", "session_id", c.sessionID)
		return Pending{}, false
	}

	history := c.store.Snapshot()
	c.store.Append(transcript.UserTurn(text))

	c.seq++
	c.pendingID = c.seq
	c.state = AwaitingCompletion

	reqCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	completer := c.completer
	model := c.opts.Model
	instruction := c.opts.SystemInstruction

	slog.Info("conversation_submit",
		"session_id", c.sessionID,
		"request_id", c.pendingID,
		"history_turns", len(history),
		"chars", len([]rune(text)),
	)

	return Pending{
		ID:     c.pendingID,
		reqCtx: reqCtx,
		run: func(ctx context.Context) (string, error) {
			return completer.Complete(ctx, model, instruction, history, text)
		},
	}, true
}

// Resolve applies the result of a Pending request. Results of superseded
// requests are dropped. On success the reveal starts and the first tick is
// returned; on failure the error turn is appended.
func (c *Controller) Resolve(res Result) (reveal.Tick, bool) {
	if c.state != AwaitingCompletion || res.ID != c.pendingID {
		slog.Debug("conversation_result_stale",
			"session_id", c.sessionID,
			"request_id", res.ID,
			"pending_id", c.pendingID,
		)
		return reveal.Tick{}, false
	}
	c.releaseRequest()

	if res.Err != nil {
		slog.Warn("conversation_reply_error",
			"session_id", c.sessionID,
			"request_id", res.ID,
			"error", res.Err,
		)
		c.store.Append(transcript.ModelTurn(ErrorReply))
		c.state = Idle
		return reveal.Tick{}, false
	}

	reply := res.Reply
	if reply == "" {
		reply = completion.FallbackReply
	}

	slog.Info("conversation_reply",
		"session_id", c.sessionID,
		"request_id", res.ID,
		"chars", len([]rune(reply)),
	)
	c.state = Revealing
	c.partial = ""
	return c.scheduler.Start(reply, c.onRevealTick, c.onRevealDone)
}

// Advance delivers a reveal tick and returns the next one.
func (c *Controller) Advance(t reveal.Tick) (reveal.Tick, bool) {
	if c.state != Revealing {
		return reveal.Tick{}, false
	}
	return c.scheduler.Fire(t)
}

// Reset discards the conversation: any reveal or request in flight is
// cancelled and the transcript is reseeded with the welcome turn.
func (c *Controller) Reset() {
	c.scheduler.Cancel()
	c.releaseRequest()
	c.pendingID = 0
	c.partial = ""
	c.state = Idle
	c.store.Reset(transcript.ModelTurn(c.opts.Welcome))

	prev := c.sessionID
	c.sessionID = uuid.NewString()
	if prev != "" {
		slog.Info("conversation_reset", "session_id", c.sessionID, "previous_session_id", prev)
	}
}

// Play submits text, runs the completion on the calling goroutine and
// drives the reveal to the end with a ticker. onPartial receives every
// revealed prefix, ending with the full reply. It is meant for hosts without an event loop.
func (c *Controller) Play(ctx context.Context, text string, onPartial func(string)) (string, error) {
	pending, ok := c.Submit(text)
	if !ok {
		return "", ErrNotAccepted
	}
	res := pending.Run(ctx)
	tick, ok := c.Resolve(res)
	if res.Err != nil {
		return ErrorReply, res.Err
	}
	if ok {
		ticker := time.NewTicker(c.scheduler.Interval())
		defer ticker.Stop()
		for ok {
			select {
			case <-ctx.Done():
				c.scheduler.Cancel()
				c.partial = ""
				c.state = Idle
				return "", ctx.Err()
			case <-ticker.C:
				tick, ok = c.Advance(tick)
				if onPartial != nil && c.partial != "" {
					onPartial(c.partial)
				}
			}
		}
	}
	last, _ := c.store.Last()
	if onPartial != nil {
		onPartial(last.Text)
	}
	return last.Text, nil
}

// State returns the current phase.
func (c *Controller) State() State {
	return c.state
}

// Busy reports whether a request or reveal is in progress.
func (c *Controller) Busy() bool {
	return c.state != Idle
}

// Partial returns the revealed prefix of the reply being animated.
func (c *Controller) Partial() string {
	return c.partial
}

// Transcript returns a copy of the committed turns.
func (c *Controller) Transcript() []transcript.Turn {
	return c.store.Snapshot()
}

// LastReply returns the most recent model turn.
func (c *Controller) LastReply() (string, bool) {
	turn, ok := c.store.LastOf(transcript.RoleModel)
	return turn.Text, ok
}

// SessionID identifies the current conversation in logs.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// RevealInterval is the delay the host waits between ticks.
func (c *Controller) RevealInterval() time.Duration {
	return c.scheduler.Interval()
}

func (c *Controller) onRevealTick(prefix string) {
	c.partial = prefix
}

func (c *Controller) onRevealDone(full string) {
	c.store.Append(transcript.ModelTurn(full))
	c.partial = ""
	c.state = Idle
}

func (c *Controller) releaseRequest() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
