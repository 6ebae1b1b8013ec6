package lsp

import (
	"encoding/json"
)

// DetectPullDiagnosticsSupport reports whether the raw initialize params declare
// the LSP 3.17 textDocument.diagnostic capability. The field's presence is
// enough, whatever its value. Malformed params fall back to push diagnostics.
func DetectPullDiagnosticsSupport(rawParams json.RawMessage) bool {
	var initParams struct {
		Capabilities struct {
			TextDocument *struct {
				Diagnostic *json.RawMessage `json:"diagnostic"`
			} `json:"textDocument"`
		} `json:"capabilities"`
	}

	if err := json.Unmarshal(rawParams, &initParams); err != nil {
		return false
	}

	textDocument := initParams.Capabilities.TextDocument
	return textDocument != nil && textDocument.Diagnostic != nil
}
