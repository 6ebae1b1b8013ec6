package workspace

import (
	"encoding/json"
	"fmt"

	"bennypowers.dev/gqlint/internal/log"
	"bennypowers.dev/gqlint/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeConfiguration handles the workspace/didChangeConfiguration notification
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	log.Info("Configuration changed")

	config, err := parseConfiguration(params.Settings)
	if err != nil {
		// keep the previous settings
		req.AddWarning(fmt.Errorf("ignoring configuration: %w", err))
		return nil
	}

	req.Server.SetConfig(config)
	log.Debug("New configuration: %+v", config)

	if err := req.Server.LoadProject(); err != nil {
		LogWarning(req.GLSP, "Failed to reload project: %v", err)
	}

	RepublishDiagnostics(req.Server)
	return nil
}

// parseConfiguration reads our section out of the client's settings object
func parseConfiguration(settings any) (types.ServerConfig, error) {
	config := types.DefaultConfig()
	if settings == nil {
		return config, nil
	}

	settingsMap, ok := settings.(map[string]any)
	if !ok {
		return config, fmt.Errorf("settings is not an object")
	}

	section, exists := settingsMap[types.SettingsKey]
	if !exists || section == nil {
		return config, nil
	}

	raw, err := json.Marshal(section)
	if err != nil {
		return config, fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := json.Unmarshal(raw, &config); err != nil {
		return config, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return config, nil
}

// RepublishDiagnostics pushes fresh diagnostics for every open document
func RepublishDiagnostics(server types.ServerContext) {
	glspCtx := server.GLSPContext()
	if glspCtx == nil {
		return
	}
	for _, doc := range server.AllDocuments() {
		if err := server.PublishDiagnostics(glspCtx, doc.URI()); err != nil {
			log.Warn("Failed to publish diagnostics for %s: %v", doc.URI(), err)
		}
	}
}
