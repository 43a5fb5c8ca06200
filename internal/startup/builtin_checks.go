package startup

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/kickai/kickai/internal/agents"
	"github.com/kickai/kickai/internal/commands"
	"github.com/kickai/kickai/internal/config"
	"github.com/kickai/kickai/internal/providers"
	"github.com/kickai/kickai/internal/store"
	"github.com/kickai/kickai/internal/tools"
)

// ConfigurationCheck verifies the loaded configuration's essential fields
// are present (spec.md §4.6's required "configuration loaded" check).
func ConfigurationCheck(cfg *config.Config) Check {
	return Check{
		Name: "configuration", Category: CategoryConfiguration, Critical: true,
		Run: func(ctx context.Context) Result {
			if cfg == nil {
				return Result{Status: StatusFailed, Message: "configuration was never loaded"}
			}
			if err := cfg.Validate(); err != nil {
				return Result{Status: StatusFailed, Message: err.Error()}
			}
			return Result{Status: StatusPassed, Message: "configuration valid"}
		},
	}
}

// LLMReachabilityCheck sends a minimal probe completion through the
// configured provider client.
func LLMReachabilityCheck(client providers.Client) Check {
	return Check{
		Name: "llm_reachable", Category: CategoryLLM, Critical: true,
		Run: func(ctx context.Context) Result {
			if client == nil {
				return Result{Status: StatusFailed, Message: "no LLM client configured"}
			}
			_, err := client.Complete(ctx, providers.CompletionRequest{
				SystemPrompt: "Respond with the single word: ready.",
				UserMessage:  "ready check",
			})
			if err != nil {
				return Result{Status: StatusFailed, Message: "LLM probe failed: " + err.Error()}
			}
			return Result{Status: StatusPassed, Message: "LLM provider reachable"}
		},
	}
}

// ToolRegistryCheck verifies the tool registry discovered at least one tool
// and carries no duplicate ids (duplicates are actually rejected at
// Register time, so a non-empty registry already implies uniqueness; this
// check exists to catch the "nothing got registered at all" failure mode).
func ToolRegistryCheck(reg *tools.Registry) Check {
	return Check{
		Name: "tool_registry", Category: CategoryRegistry, Critical: true,
		Run: func(ctx context.Context) Result {
			if reg == nil {
				return Result{Status: StatusFailed, Message: "tool registry was never built"}
			}
			all := reg.All()
			if len(all) == 0 {
				return Result{Status: StatusWarning, Message: "tool registry is empty"}
			}
			return Result{Status: StatusPassed, Message: fmt.Sprintf("%d tools registered", len(all))}
		},
	}
}

// CommandRegistryCheck verifies the command registry was initialized and
// carries every name in expectedCommands.
func CommandRegistryCheck(reg *commands.Registry, expectedCommands []string) Check {
	return Check{
		Name: "command_registry", Category: CategoryRegistry, Critical: true,
		Run: func(ctx context.Context) Result {
			if reg == nil {
				return Result{Status: StatusFailed, Message: "command registry was never initialized"}
			}
			known := map[string]bool{}
			for _, n := range reg.Names() {
				known[n] = true
			}
			var missing []string
			for _, want := range expectedCommands {
				if !known[strings.ToLower(want)] {
					missing = append(missing, want)
				}
			}
			if len(missing) > 0 {
				return Result{Status: StatusFailed, Message: "missing expected commands: " + strings.Join(missing, ", ")}
			}
			return Result{Status: StatusPassed, Message: fmt.Sprintf("%d commands registered", reg.Count())}
		},
	}
}

// AgentConstructionCheck verifies every configured agent role resolved,
// including message_processor (agents.Build already enforces this at
// construction time — this check exists so a broken wiring step surfaces
// in the validation report rather than only as a startup panic).
func AgentConstructionCheck(reg *agents.Registry) Check {
	return Check{
		Name: "agents_constructed", Category: CategoryAgent, Critical: true,
		Run: func(ctx context.Context) Result {
			if reg == nil {
				return Result{Status: StatusFailed, Message: "agent registry was never built"}
			}
			if reg.MessageProcessor() == nil {
				return Result{Status: StatusFailed, Message: "message_processor agent is missing"}
			}
			return Result{Status: StatusPassed, Message: fmt.Sprintf("%d agent roles configured", len(reg.Roles()))}
		},
	}
}

// DatabaseConnectivityCheck verifies the store backend accepts a read.
func DatabaseConnectivityCheck(st store.Store) Check {
	return Check{
		Name: "database_connectivity", Category: CategoryDatabase, Critical: true,
		Run: func(ctx context.Context) Result {
			if st == nil {
				return Result{Status: StatusFailed, Message: "no store configured"}
			}
			col := st.Collection(store.GlobalTeams)
			if _, err := col.List(ctx); err != nil {
				return Result{Status: StatusFailed, Message: "database read failed: " + err.Error()}
			}
			return Result{Status: StatusPassed, Message: "database reachable"}
		},
	}
}

// DependencyContainerCheck is the cross-component invariant spec.md §4.6
// calls "dependency container initialized": every core collaborator this
// process needs is non-nil.
func DependencyContainerCheck(toolReg *tools.Registry, commandReg *commands.Registry, agentReg *agents.Registry, st store.Store) Check {
	return Check{
		Name: "dependency_container", Category: CategorySystem, Critical: true,
		Run: func(ctx context.Context) Result {
			var missing []string
			if toolReg == nil {
				missing = append(missing, "tool registry")
			}
			if commandReg == nil {
				missing = append(missing, "command registry")
			}
			if agentReg == nil {
				missing = append(missing, "agent registry")
			}
			if st == nil {
				missing = append(missing, "store")
			}
			if len(missing) > 0 {
				return Result{Status: StatusFailed, Message: "not initialized: " + strings.Join(missing, ", ")}
			}
			return Result{Status: StatusPassed, Message: "all core collaborators initialized"}
		},
	}
}

// forbiddenPlaceholderMarkers are the stub/placeholder strings
// SPEC_FULL.md §9 item 5 says must never reach production traffic.
var forbiddenPlaceholderMarkers = []string{"TODO: implement", "NotImplemented", "not implemented yet"}

// StubDetectionCheck walks sourceDir's .go files (excluding _test.go) for
// forbidden placeholder markers, so a half-wired handler can never reach
// production traffic (SPEC_FULL.md §9 item 5, grounded on the original's
// stub_detection_check.py).
func StubDetectionCheck(sourceDir string) Check {
	return Check{
		Name: "no_placeholder_stubs", Category: CategorySystem, Critical: true,
		Run: func(ctx context.Context) Result {
			var offenders []string
			err := filepath.WalkDir(sourceDir, func(path string, d os.DirEntry, err error) error {
				if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
					return nil
				}
				data, readErr := os.ReadFile(path)
				if readErr != nil {
					return nil
				}
				for _, marker := range forbiddenPlaceholderMarkers {
					if strings.Contains(string(data), marker) {
						offenders = append(offenders, path+" ("+marker+")")
					}
				}
				return nil
			})
			if err != nil {
				return Result{Status: StatusFailed, Message: "could not scan source tree: " + err.Error()}
			}
			if len(offenders) > 0 {
				return Result{Status: StatusFailed, Message: "placeholder markers found: " + strings.Join(offenders, "; ")}
			}
			return Result{Status: StatusPassed, Message: "no placeholder markers found"}
		},
	}
}

// CleanArchitectureCheck walks domainDir's Go source and fails if any file
// imports toolsImportPath — the declarative layer that advertises tool
// metadata must never be imported by pure domain code (SPEC_FULL.md §9
// item 4, grounded on the original's clean_architecture_check.py).
func CleanArchitectureCheck(domainDir, toolsImportPath string) Check {
	return Check{
		Name: "clean_architecture", Category: CategorySystem, Critical: true,
		Run: func(ctx context.Context) Result {
			var offenders []string
			fset := token.NewFileSet()
			err := filepath.WalkDir(domainDir, func(path string, d os.DirEntry, err error) error {
				if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") {
					return nil
				}
				file, parseErr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
				if parseErr != nil {
					return nil
				}
				for _, imp := range file.Imports {
					importPath := strings.Trim(imp.Path.Value, `"`)
					if importPath == toolsImportPath {
						offenders = append(offenders, path)
					}
				}
				return nil
			})
			if err != nil {
				return Result{Status: StatusFailed, Message: "could not scan domain tree: " + err.Error()}
			}
			if len(offenders) > 0 {
				return Result{Status: StatusFailed, Message: "domain package imports the tool layer: " + strings.Join(offenders, ", ")}
			}
			return Result{Status: StatusPassed, Message: "domain layer does not import the tool layer"}
		},
	}
}
