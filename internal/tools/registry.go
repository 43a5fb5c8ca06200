package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kickai/kickai/internal/kerrors"
	"github.com/kickai/kickai/internal/reqcontext"
	"github.com/kickai/kickai/internal/telemetry"
)

// Provider is a compile-time-known source of tool descriptors. Feature
// modules implement Provider instead of relying on reflection-based
// filesystem scanning (SPEC_FULL.md §9, design note on auto-discovery).
type Provider interface {
	ProvideTools() []Descriptor
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func() []Descriptor

func (f ProviderFunc) ProvideTools() []Descriptor { return f() }

// PluginRegistry is the process-level registry of declared extension points,
// consulted by the tool Registry before walking its own compiled-in
// providers (spec.md §4.1, "it also consults a process-level plugin
// registry first").
type PluginRegistry struct {
	mu        sync.RWMutex
	providers []Provider
}

// NewPluginRegistry creates an empty process-wide plugin registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{}
}

// Register adds an extension-point provider.
func (p *PluginRegistry) Register(provider Provider) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.providers = append(p.providers, provider)
}

// Providers returns a snapshot of the registered providers.
func (p *PluginRegistry) Providers() []Provider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Provider, len(p.providers))
	copy(out, p.providers)
	return out
}

// Registry is the central directory of named operations callable by agents
// (spec.md §4.1). It is safe for concurrent read access once Discover has
// completed; registration is expected to happen only during startup.
type Registry struct {
	mu          sync.RWMutex
	byID        map[string]*Descriptor
	aliasToID   map[string]string
	schemas     map[string]*jsonschema.Schema
	discovered  bool
	logger      *slog.Logger
	callCounter *prometheus.CounterVec
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		byID:      make(map[string]*Descriptor),
		aliasToID: make(map[string]string),
		schemas:   make(map[string]*jsonschema.Schema),
		logger:    logger.With("component", "tool_registry"),
		callCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kickai_tool_calls_total",
			Help: "Count of tool invocations by tool_id and outcome.",
		}, []string{"tool_id", "outcome"}),
	}
}

// Collector exposes the registry's Prometheus metrics for process-wide
// registration.
func (r *Registry) Collector() prometheus.Collector { return r.callCounter }

// Register adds a tool with full metadata. A tool whose context schema is
// declared gets it compiled immediately so invocation-time failures are
// reduced to "schema didn't compile at startup" (a startup-validator
// concern, not a per-request one).
func (r *Registry) Register(d Descriptor) error {
	if d.ToolID == "" {
		return kerrors.Programming("tool descriptor missing tool_id", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[d.ToolID]; exists {
		return kerrors.Conflict(fmt.Sprintf("duplicate tool_id %q", d.ToolID), nil)
	}
	for _, alias := range d.Aliases {
		if _, exists := r.byID[alias]; exists {
			return kerrors.Conflict(fmt.Sprintf("alias %q collides with a tool_id", alias), nil)
		}
		if _, exists := r.aliasToID[alias]; exists {
			return kerrors.Conflict(fmt.Sprintf("alias %q already registered", alias), nil)
		}
	}

	applyHeuristics(&d)

	if len(d.ContextSchema) > 0 {
		compiled, err := compileSchema(d.ToolID, d.ContextSchema)
		if err != nil {
			return kerrors.Programming(fmt.Sprintf("tool %q context schema invalid", d.ToolID), err)
		}
		r.schemas[d.ToolID] = compiled
		d.RequiresContext = true
	}

	copyOf := d
	r.byID[d.ToolID] = &copyOf
	for _, alias := range d.Aliases {
		r.aliasToID[alias] = d.ToolID
	}
	return nil
}

func compileSchema(toolID string, raw []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	resource := "tool://" + toolID + "/context.json"
	if err := compiler.AddResource(resource, strings.NewReader(string(raw))); err != nil {
		return nil, err
	}
	return compiler.Compile(resource)
}

// Discover consults the plugin registry first, then every compile-time
// Provider, registering every descriptor it yields. It is idempotent: the
// internal discovered flag guards against repeat execution (spec.md §4.1).
func (r *Registry) Discover(plugins *PluginRegistry, providers ...Provider) error {
	r.mu.Lock()
	if r.discovered {
		r.mu.Unlock()
		return nil
	}
	r.discovered = true
	r.mu.Unlock()

	all := make([]Provider, 0, len(providers)+4)
	if plugins != nil {
		all = append(all, plugins.Providers()...)
	}
	all = append(all, providers...)

	for _, provider := range all {
		for _, d := range provider.ProvideTools() {
			if err := r.Register(d); err != nil {
				return err
			}
		}
	}
	r.logger.Info("tool discovery complete", "tool_count", len(r.byID))
	return nil
}

// Resolve looks up a tool by tool_id or alias. Returns nil if unknown.
func (r *Registry) Resolve(idOrAlias string) *Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.byID[idOrAlias]; ok {
		return d
	}
	if canonical, ok := r.aliasToID[idOrAlias]; ok {
		return r.byID[canonical]
	}
	return nil
}

// All returns every registered descriptor, sorted by tool_id for
// deterministic iteration.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.byID))
	for _, d := range r.byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ToolID < out[j].ToolID })
	return out
}

// ByFeature, ByType, ByCategory, ByEntity, and ByPermission are the
// classification helpers of spec.md §4.1.
func (r *Registry) ByFeature(feature string) []*Descriptor {
	return r.filter(func(d *Descriptor) bool { return d.FeatureModule == feature })
}

func (r *Registry) ByType(t Type) []*Descriptor {
	return r.filter(func(d *Descriptor) bool { return d.Type == t })
}

func (r *Registry) ByCategory(c Category) []*Descriptor {
	return r.filter(func(d *Descriptor) bool { return d.Category == c })
}

func (r *Registry) ByEntity(entity EntityType) []*Descriptor {
	return r.filter(func(d *Descriptor) bool { return d.AllowsEntity(entity) })
}

func (r *Registry) ByPermission(p Permission) []*Descriptor {
	return r.filter(func(d *Descriptor) bool { return d.RequiredPermission == p })
}

func (r *Registry) ByAgentRole(role string) []*Descriptor {
	return r.filter(func(d *Descriptor) bool {
		if len(d.AccessControl) == 0 {
			return true
		}
		_, ok := d.AccessControl[role]
		return ok
	})
}

func (r *Registry) filter(pred func(*Descriptor) bool) []*Descriptor {
	var out []*Descriptor
	for _, d := range r.All() {
		if pred(d) {
			out = append(out, d)
		}
	}
	return out
}

// ValidateAccess implements spec.md §4.1's access-control rule: a tool is
// callable by an agent iff (a) it is enabled, (b) the agent is listed in
// its access-control map (or the map is empty), and (c) entity, if
// provided, is among the mapped values.
func (r *Registry) ValidateAccess(toolID, agentRole string, entity EntityType) bool {
	d := r.Resolve(toolID)
	if d == nil || !d.Enabled {
		return false
	}
	if len(d.AccessControl) == 0 {
		return true
	}
	if entity == "" {
		_, ok := d.AccessControl[agentRole]
		return ok
	}
	return d.AccessControl.Allows(agentRole, entity)
}

// Invoke resolves toolID and dispatches through the context-aware wrapper
// when the tool declares a schema, recording a call-outcome metric either
// way.
func (r *Registry) Invoke(ctx context.Context, toolID string, rc *reqcontext.RequestContext, args map[string]any) (string, error) {
	d := r.Resolve(toolID)
	if d == nil {
		return errorEnvelope(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}

	ctx, span := telemetry.StartToolCall(ctx, d.ToolID)
	defer span.End()

	if !d.Enabled {
		r.callCounter.WithLabelValues(d.ToolID, "disabled").Inc()
		return errorEnvelope(fmt.Sprintf("tool %s is disabled", toolID)), nil
	}

	schema := r.schemaFor(d.ToolID)
	var (
		result string
		err    error
	)
	if schema != nil {
		result, err = r.invokeWithSchema(ctx, d, schema, rc, args)
	} else {
		result, err = d.Handler(ctx, rc, args)
	}

	outcome := "ok"
	if err != nil || strings.Contains(result, `"status":"error"`) {
		outcome = "error"
	}
	if err != nil {
		span.RecordError(err)
	}
	r.callCounter.WithLabelValues(d.ToolID, outcome).Inc()
	return result, err
}

func (r *Registry) schemaFor(toolID string) *jsonschema.Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schemas[toolID]
}

// invokeWithSchema extracts a context mapping from args, validates it
// against the declared schema, and only on success calls the underlying
// tool (spec.md §4.1, "Context-aware wrapping").
func (r *Registry) invokeWithSchema(ctx context.Context, d *Descriptor, schema *jsonschema.Schema, rc *reqcontext.RequestContext, args map[string]any) (string, error) {
	contextArgs, ok := args["context"].(map[string]any)
	if !ok {
		contextArgs = rc.ToMap()
	}

	payload, err := json.Marshal(contextArgs)
	if err != nil {
		r.logger.Error("context marshal failed", "tool_id", d.ToolID, "error", err)
		return errorEnvelope("internal error validating context"), nil
	}
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return errorEnvelope("internal error validating context"), nil
	}
	if err := schema.Validate(decoded); err != nil {
		r.logger.Warn("tool context validation failed", "tool_id", d.ToolID, "error", err)
		return errorEnvelope(fmt.Sprintf("invalid context for %s: %v", d.ToolID, err)), nil
	}

	return d.Handler(ctx, rc, args)
}

func errorEnvelope(message string) string {
	payload, _ := json.Marshal(Envelope{Status: "error", Message: message})
	return string(payload)
}

// heuristic keyword tables used when a discovered tool's metadata is
// incomplete (spec.md §4.1, "Heuristic classification").
var heuristicKeywordAccess = []struct {
	keywords []string
	toolType Type
	access   AccessControl
}{
	{
		keywords: []string{"player", "register", "approve"},
		toolType: TypePlayerMgmt,
		access: AccessControl{
			"player_coordinator": {EntityPlayer, EntityBoth},
			"team_manager":       {EntityPlayer, EntityBoth},
			"administrator":      {EntityPlayer, EntityTeamMember, EntityBoth},
		},
	},
	{
		keywords: []string{"admin", "manage"},
		toolType: TypeTeamMgmt,
		access: AccessControl{
			"administrator": {EntityPlayer, EntityTeamMember, EntityBoth, EntityNeither},
		},
	},
	{
		keywords: []string{"help"},
		toolType: TypeHelp,
		access: AccessControl{
			"help_assistant": {EntityPlayer, EntityTeamMember, EntityBoth, EntityNeither},
		},
	},
}

// applyHeuristics fills in Type/AccessControl for a descriptor whose
// explicit registration metadata left them unset, based on keyword
// matching against the tool_id (spec.md §4.1). Explicit metadata always
// wins; heuristics only fill gaps.
func applyHeuristics(d *Descriptor) {
	if d.Type != "" && len(d.AccessControl) > 0 {
		return
	}
	lowered := strings.ToLower(d.ToolID)
	for _, rule := range heuristicKeywordAccess {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				if d.Type == "" {
					d.Type = rule.toolType
				}
				if len(d.AccessControl) == 0 {
					d.AccessControl = rule.access
				}
				return
			}
		}
	}
}
