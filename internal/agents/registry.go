// Package agents implements the agent registry and factory of spec.md
// §4.3: agents are configured, not discovered. A factory reads role
// configuration (goal, backstory, tool-id list) and produces agent
// instances bound to an LLM client and a tool subset filtered from the
// tool registry. The factory fails fast at startup if a configured role
// references a tool ID the tool registry does not know about.
package agents

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/kickai/kickai/internal/kerrors"
	"github.com/kickai/kickai/internal/providers"
	"github.com/kickai/kickai/internal/reqcontext"
	"github.com/kickai/kickai/internal/tools"
)

// Role names the fixed set of agent personas the pipeline routes to.
// message_processor must always exist — it is the mandated fallback for
// stage 5/6 of the orchestration pipeline (spec.md §4.4).
type Role string

const (
	RoleMessageProcessor Role = "message_processor"
	RoleHelpAssistant    Role = "help_assistant"
	RolePlayerCoordinator Role = "player_coordinator"
	RoleTeamManager      Role = "team_manager"
	RoleAdministrator    Role = "administrator"
)

// Config is one role's static configuration: persona plus the tool IDs it
// is allowed to call. This is the only supported way to add an agent —
// there is no filesystem or reflection-based discovery (spec.md §4.3, and
// the no-reflection design note of spec.md §9 that governs the sibling
// tool registry).
type Config struct {
	Role      Role
	Goal      string
	Backstory string
	ToolIDs   []string
}

// Agent is the built, runnable persona. Its public contract is exactly one
// operation, Execute, per spec.md §4.3.
type Agent struct {
	Role      Role
	Goal      string
	Backstory string
	tools     []*tools.Descriptor
	llm       providers.Client
	logger    *slog.Logger
}

// AllowsEntity reports whether any bound tool permits invocation against
// entity by this agent's role (spec.md §4.1 ValidateAccess, used by
// pipeline stage 6 to decide whether execution must fall back).
func (a *Agent) AllowsEntity(entity tools.EntityType) bool {
	for _, d := range a.tools {
		if d.AccessControl.Allows(string(a.Role), entity) {
			return true
		}
	}
	return len(a.tools) == 0
}

// Execute runs taskDescription against the agent's bound LLM, passing the
// agent's tool subset along as tool specs, and returns the reply text; a
// tool call the LLM requests is not executed. Any LLM/transport error is wrapped, never panicked, so that
// pipeline stage 6 can convert it into a user-safe apology.
func (a *Agent) Execute(ctx context.Context, taskDescription string, rc *reqcontext.RequestContext) (string, error) {
	req := providers.CompletionRequest{
		SystemPrompt: a.systemPrompt(),
		UserMessage:  taskDescription,
		Tools:        toolSpecs(a.tools),
	}
	resp, err := a.llm.Complete(ctx, req)
	if err != nil {
		return "", kerrors.Unavailable(fmt.Sprintf("agent %q completion failed", a.Role), err)
	}
	return resp.Text, nil
}

func (a *Agent) systemPrompt() string {
	return fmt.Sprintf("%s\n\n%s", a.Goal, a.Backstory)
}

func toolSpecs(descriptors []*tools.Descriptor) []providers.ToolSpec {
	specs := make([]providers.ToolSpec, 0, len(descriptors))
	for _, d := range descriptors {
		specs = append(specs, providers.ToolSpec{
			Name:        d.ToolID,
			Description: d.Description,
			Schema:      d.ContextSchema,
		})
	}
	return specs
}

// Registry holds every built agent, keyed by role.
type Registry struct {
	mu     sync.RWMutex
	agents map[Role]*Agent
	logger *slog.Logger
}

// Build validates every configured role against the tool registry and
// constructs a Registry of bound agents. It returns an error — rather than
// building a partially-functional registry — the instant any role
// references an unknown tool ID, so that a bad config is caught at
// startup, not at first request (spec.md §4.3).
func Build(logger *slog.Logger, toolRegistry *tools.Registry, llm providers.Client, configs []Config) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	reg := &Registry{agents: make(map[Role]*Agent), logger: logger.With("component", "agent_registry")}

	hasMessageProcessor := false
	for _, cfg := range configs {
		if cfg.Role == RoleMessageProcessor {
			hasMessageProcessor = true
		}
		var bound []*tools.Descriptor
		for _, toolID := range cfg.ToolIDs {
			d := toolRegistry.Resolve(toolID)
			if d == nil {
				return nil, kerrors.Programming(fmt.Sprintf("agent role %q references unknown tool %q", cfg.Role, toolID), nil)
			}
			bound = append(bound, d)
		}
		reg.agents[cfg.Role] = &Agent{
			Role:      cfg.Role,
			Goal:      cfg.Goal,
			Backstory: cfg.Backstory,
			tools:     bound,
			llm:       llm,
			logger:    logger,
		}
	}

	if !hasMessageProcessor {
		return nil, kerrors.Programming("agent configuration is missing the mandatory message_processor role", nil)
	}

	return reg, nil
}

// Get returns the agent for role, or nil if unconfigured.
func (r *Registry) Get(role Role) *Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.agents[role]
}

// MessageProcessor returns the mandatory fallback agent.
func (r *Registry) MessageProcessor() *Agent {
	return r.Get(RoleMessageProcessor)
}

// Roles returns every configured role, sorted.
func (r *Registry) Roles() []Role {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Role, 0, len(r.agents))
	for role := range r.agents {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DefaultConfigs returns the baseline role set used when no operator
// override is supplied. It mirrors the original KICKAI crew's role split
// (native_crewai_helpers.py, per original_source/_INDEX.md) generalized
// onto this registry's tool-ID vocabulary — one tool per command name, as
// registered by commands.ToolProvider, so stage 5's entity-aware routing
// (SPEC_FULL.md §4) resolves against real, invokable tools rather than
// placeholder IDs nothing ever registers.
func DefaultConfigs() []Config {
	return []Config{
		{
			Role:      RoleMessageProcessor,
			Goal:      "Handle any request that no more specialized agent claims.",
			Backstory: "A generalist assistant for a football team's Telegram chat, falling back gracefully when unsure.",
			ToolIDs:   []string{},
		},
		{
			Role:      RoleHelpAssistant,
			Goal:      "Explain available commands and answer general questions about using the bot.",
			Backstory: "Friendly onboarding guide for new players and team members.",
			ToolIDs:   []string{"help"},
		},
		{
			Role:      RolePlayerCoordinator,
			Goal:      "Manage player registration, approval, and lookup.",
			Backstory: "Handles the team roster day to day.",
			ToolIDs:   []string{"myinfo", "register", "approve", "list", "status", "addplayer", "removeplayer"},
		},
		{
			Role:      RoleTeamManager,
			Goal:      "Manage matches, attendance, and squad selection.",
			Backstory: "Runs matchday logistics for the team.",
			ToolIDs:   []string{"creatematch", "matches", "attendance", "attendancelist", "selectsquad"},
		},
		{
			Role:      RoleAdministrator,
			Goal:      "Perform privileged team-configuration operations.",
			Backstory: "Trusted operator for leadership-only actions.",
			ToolIDs:   []string{"addmember", "removemember", "broadcast"},
		},
	}
}
