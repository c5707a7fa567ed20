// Package agent runs the tool-using conversation loop. An Agent merges the
// tools of its skills into one flat list, sends the transcript to the
// completion endpoint and executes the requested tool calls in order until
// the model answers with plain content or the iteration cap is reached.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jingkaihe/skillagent/pkg/llm"
	"github.com/jingkaihe/skillagent/pkg/logger"
	"github.com/jingkaihe/skillagent/pkg/skills"
	"github.com/jingkaihe/skillagent/pkg/sysprompt"
	"github.com/jingkaihe/skillagent/pkg/telemetry"
	"github.com/jingkaihe/skillagent/pkg/tools"
	tooltypes "github.com/jingkaihe/skillagent/pkg/types/tools"
)

// DefaultMaxIterations caps the number of completion requests per run.
const DefaultMaxIterations = 10

// ToolNotFound is the result text for a call to an unknown tool.
const ToolNotFound = "tool not found"

var (
	ErrDuplicateTool  = errors.New("duplicate tool name")
	ErrMissingHandler = errors.New("tool has no handler")
	ErrOrphanHandler  = errors.New("handler has no tool definition")
	ErrNoChoices      = errors.New("completion endpoint returned no choices")
)

// Status tells how a run ended.
type Status string

const (
	// StatusDone means the model answered without requesting tools.
	StatusDone Status = "done"
	// StatusExhausted means the iteration cap was reached first.
	StatusExhausted Status = "exhausted"
)

// Result is the outcome of one run. Content is the final answer for
// StatusDone, and the last non-empty assistant content for StatusExhausted.
type Result struct {
	Status     Status
	Content    string
	Messages   []openai.ChatCompletionMessage
	Iterations int
	// Usage sums the token counts reported for every request of the run.
	Usage      openai.Usage
}

type config struct {
	systemPrompt  string
	maxIterations int
	model         string
	maxTokens     int
	handler       MessageHandler
	extraTools    []tooltypes.Definition
	extraHandlers map[string]tooltypes.Handler
}

// Option configures an Agent
type Option func(*config)

// WithSystemPrompt sets the template the skills catalog is substituted into.
func WithSystemPrompt(template string) Option {
	return func(c *config) { c.systemPrompt = template }
}

// WithMaxIterations overrides DefaultMaxIterations.
func WithMaxIterations(n int) Option {
	return func(c *config) { c.maxIterations = n }
}

// WithModel sets the model name sent with every request.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithMaxTokens bounds the completion length. Zero leaves it to the endpoint.
func WithMaxTokens(n int) Option {
	return func(c *config) { c.maxTokens = n }
}

// WithMessageHandler receives progress events. Defaults to NopHandler.
func WithMessageHandler(h MessageHandler) Option {
	return func(c *config) { c.handler = h }
}

// WithExtraTools adds tools that belong to no skill. They are offered to the
// model but not listed in the skills catalog.
func WithExtraTools(defs []tooltypes.Definition, handlers map[string]tooltypes.Handler) Option {
	return func(c *config) {
		c.extraTools = append(c.extraTools, defs...)
		if c.extraHandlers == nil {
			c.extraHandlers = make(map[string]tooltypes.Handler)
		}
		for name, h := range handlers {
			c.extraHandlers[name] = h
		}
	}
}

// Agent is immutable after New and safe to Run repeatedly. Each Run owns
// its own transcript.
type Agent struct {
	client        llm.Client
	skills        []skills.Skill
	systemPrompt  string
	maxIterations int
	model         string
	maxTokens     int
	handler       MessageHandler
	tools         []tooltypes.Definition
	openaiTools   []openai.Tool
	handlers      map[string]tooltypes.Handler
}

// New composes skills into an agent. Tool names must be unique across all
// skills and extra tools, and every tool must have exactly one handler.
func New(client llm.Client, skillList []skills.Skill, opts ...Option) (*Agent, error) {
	if client == nil {
		return nil, errors.New("completion client is required")
	}

	cfg := config{
		maxIterations: DefaultMaxIterations,
		model:         llm.DefaultModel,
		handler:       NopHandler{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxIterations < 1 {
		return nil, errors.Errorf("max iterations must be at least 1, got %d", cfg.maxIterations)
	}
	if cfg.handler == nil {
		cfg.handler = NopHandler{}
	}

	a := &Agent{
		client:        client,
		skills:        skillList,
		systemPrompt:  sysprompt.Build(cfg.systemPrompt, skillList),
		maxIterations: cfg.maxIterations,
		model:         cfg.model,
		maxTokens:     cfg.maxTokens,
		handler:       cfg.handler,
		handlers:      make(map[string]tooltypes.Handler),
	}

	owners := make(map[string]string)
	for _, s := range skillList {
		if err := a.merge(owners, s.Name, s.Tools, s.Handlers); err != nil {
			return nil, err
		}
	}
	if err := a.merge(owners, "extra tools", cfg.extraTools, cfg.extraHandlers); err != nil {
		return nil, err
	}

	a.openaiTools = tools.ToOpenAITools(a.tools)
	return a, nil
}

func (a *Agent) merge(owners map[string]string, owner string, defs []tooltypes.Definition, handlers map[string]tooltypes.Handler) error {
	declared := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if prev, dup := owners[def.Name]; dup {
			return errors.Wrapf(ErrDuplicateTool, "tool %q in %s already provided by %s", def.Name, owner, prev)
		}
		if handlers[def.Name] == nil {
			return errors.Wrapf(ErrMissingHandler, "tool %q in %s", def.Name, owner)
		}
		owners[def.Name] = owner
		declared[def.Name] = struct{}{}
		a.tools = append(a.tools, def)
		a.handlers[def.Name] = handlers[def.Name]
	}
	for name := range handlers {
		if _, ok := declared[name]; !ok {
			return errors.Wrapf(ErrOrphanHandler, "handler %q in %s", name, owner)
		}
	}
	return nil
}

// SystemPrompt returns the composed system prompt.
func (a *Agent) SystemPrompt() string {
	return a.systemPrompt
}

// Tools returns the merged tool list in skill order.
func (a *Agent) Tools() []tooltypes.Definition {
	return a.tools
}

// Skills returns the skills the agent was built from.
func (a *Agent) Skills() []skills.Skill {
	return a.skills
}

// Run answers userMessage. Endpoint failures abort the run and are returned;
// tool failures are reported to the model as text and never abort it.
func (a *Agent) Run(ctx context.Context, userMessage string) (result Result, err error) {
	runID := uuid.NewString()
	ctx = logger.WithFields(ctx, logrus.Fields{"run_id": runID})
	ctx, span := telemetry.StartSpan(ctx, "agent.run",
		attribute.String("run.id", runID),
		attribute.String("llm.model", a.model),
		attribute.Int("agent.max_iterations", a.maxIterations),
	)
	defer func() {
		span.SetAttributes(
			attribute.String("agent.status", string(result.Status)),
			attribute.Int("agent.iterations", result.Iterations),
		)
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	log := logger.G(ctx)
	log.WithField("tools", len(a.tools)).Debug("starting agent run")

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: a.systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userMessage},
	}

	var lastContent string
	var usage openai.Usage
	for i := 1; i <= a.maxIterations; i++ {
		a.handler.HandleIteration(i)

		var done bool
		err := telemetry.WithSpan(ctx, "agent.iteration", func(ctx context.Context) error {
			msg, reported, err := a.complete(ctx, messages)
			if err != nil {
				return err
			}
			telemetry.AddEvent(ctx, "completion.received",
				attribute.Int("completion.tool_calls", len(msg.ToolCalls)),
				attribute.Int("usage.total_tokens", reported.TotalTokens),
			)
			usage.PromptTokens += reported.PromptTokens
			usage.CompletionTokens += reported.CompletionTokens
			usage.TotalTokens += reported.TotalTokens
			messages = append(messages, msg)
			if msg.Content != "" {
				lastContent = msg.Content
			}

			if len(msg.ToolCalls) == 0 {
				done = true
				return nil
			}

			for _, call := range msg.ToolCalls {
				messages = append(messages, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					Content:    a.invoke(ctx, call),
					ToolCallID: call.ID,
				})
			}
			return nil
		}, attribute.Int("agent.iteration", i))
		if err != nil {
			return Result{Messages: messages, Iterations: i, Usage: usage}, errors.Wrapf(err, "iteration %d", i)
		}

		if done {
			log.WithField("iterations", i).Info("agent run finished")
			a.handler.HandleText(lastAssistant(messages))
			a.handler.HandleDone()
			return Result{
				Status:     StatusDone,
				Content:    lastAssistant(messages),
				Messages:   messages,
				Iterations: i,
				Usage:      usage,
			}, nil
		}
	}

	log.WithField("max_iterations", a.maxIterations).Warn("agent run reached the iteration limit without an answer")
	a.handler.HandleDone()
	return Result{
		Status:     StatusExhausted,
		Content:    lastContent,
		Messages:   messages,
		Iterations: a.maxIterations,
		Usage:      usage,
	}, nil
}

func (a *Agent) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (openai.ChatCompletionMessage, openai.Usage, error) {
	request := openai.ChatCompletionRequest{
		Model:     a.model,
		Messages:  messages,
		MaxTokens: a.maxTokens,
	}
	if len(a.openaiTools) > 0 {
		request.Tools = a.openaiTools
		request.ToolChoice = "auto"
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return openai.ChatCompletionMessage{}, openai.Usage{}, errors.Wrap(err, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return openai.ChatCompletionMessage{}, resp.Usage, ErrNoChoices
	}

	telemetry.SetAttributes(ctx,
		attribute.Int("llm.usage.prompt_tokens", resp.Usage.PromptTokens),
		attribute.Int("llm.usage.completion_tokens", resp.Usage.CompletionTokens),
	)

	msg := resp.Choices[0].Message
	if msg.Role == "" {
		msg.Role = openai.ChatMessageRoleAssistant
	}
	return msg, resp.Usage, nil
}

// invoke runs one tool call and returns its result text.
func (a *Agent) invoke(ctx context.Context, call openai.ToolCall) string {
	name := call.Function.Name
	ctx, span := telemetry.StartSpan(ctx, "tool."+name, attribute.String("tool.call_id", call.ID))
	defer span.End()

	log := logger.G(ctx).WithField("tool", name).WithField("call_id", call.ID)
	a.handler.HandleToolUse(name, call.Function.Arguments)

	result := a.dispatch(ctx, name, call.Function.Arguments)
	if strings.HasPrefix(result, tooltypes.ErrorPrefix) || result == ToolNotFound {
		telemetry.SetAttributes(ctx, attribute.Bool("tool.error", true))
		log.WithField("result", result).Debug("tool call failed")
	} else {
		log.WithField("chars", len(result)).Debug("tool call finished")
	}

	a.handler.HandleToolResult(name, result)
	return result
}

func (a *Agent) dispatch(ctx context.Context, name, arguments string) string {
	handler, ok := a.handlers[name]
	if !ok {
		logger.G(ctx).WithField("tool", name).Warn("model requested an unknown tool")
		return ToolNotFound
	}

	raw := json.RawMessage(arguments)
	if strings.TrimSpace(arguments) == "" {
		raw = json.RawMessage("{}")
	}
	if !json.Valid(raw) {
		return tooltypes.ErrorTextf("некорректные JSON-аргументы для %s", name)
	}
	return safeCall(ctx, name, handler, raw)
}

// safeCall turns a handler panic into error text.
func safeCall(ctx context.Context, name string, handler tooltypes.Handler, arguments json.RawMessage) (result string) {
	defer func() {
		if r := recover(); r != nil {
			logger.G(ctx).WithField("tool", name).WithField("panic", fmt.Sprint(r)).Error("tool handler panicked")
			result = tooltypes.ErrorTextf("инструмент %s завершился аварийно: %v", name, r)
		}
	}()
	return handler(ctx, arguments)
}

func lastAssistant(messages []openai.ChatCompletionMessage) string {
	return messages[len(messages)-1].Content
}
