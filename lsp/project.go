package lsp

import (
	"context"
	"path/filepath"
	"slices"

	"bennypowers.dev/gqlint/internal/config"
	"bennypowers.dev/gqlint/internal/lint"
	"bennypowers.dev/gqlint/internal/log"
	"bennypowers.dev/gqlint/internal/schema"
	"bennypowers.dev/gqlint/lsp/types"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// GetConfig returns the client settings
func (s *Server) GetConfig() types.ServerConfig {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.config
}

// SetConfig replaces the client settings. Call LoadProject to apply them.
func (s *Server) SetConfig(config types.ServerConfig) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config = config
}

// Project returns the resolved project configuration
func (s *Server) Project() *config.Config {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.project
}

// LoadProject resolves the project configuration, with client settings layered
// on top, loads the schema and installs a new linter.
//
// A configuration error keeps the previous linter. A schema error installs a
// linter that only checks syntax, and is returned so the caller can report it.
func (s *Server) LoadProject() error {
	root := s.RootPath()
	overrides := s.GetConfig().Overrides()

	var (
		cfg *config.Config
		err error
	)
	if root == "" {
		cfg, err = config.Resolve("", overrides)
	} else {
		cfg, err = config.Load(root, "", overrides)
	}
	if err != nil {
		return err
	}

	log.SetLevel(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), schema.DefaultFetchTimeout)
	defer cancel()
	sch, schemaErr := schema.Load(ctx, cfg.Root, cfg.Schema)

	linter := lint.New(cfg, sch)

	s.configMu.Lock()
	s.project = cfg
	s.linter = linter
	s.configMu.Unlock()

	log.Info("Project loaded: env=%s tag=%s schema=%t", cfg.Env, cfg.Tag, linter.HasSchema())
	return schemaErr
}

// IsProjectFile reports whether path is a config file, package.json or a
// local schema source of the workspace.
func (s *Server) IsProjectFile(path string) bool {
	root := s.RootPath()
	if root == "" {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	if rel == "package.json" || slices.Contains(config.ConfigFileNames, rel) {
		return true
	}

	project := s.Project()
	if project == nil {
		return false
	}
	for _, spec := range project.Schema {
		if schema.IsRemote(spec) {
			continue
		}
		pattern := filepath.ToSlash(spec)
		if filepath.IsAbs(spec) {
			if matched, _ := doublestar.PathMatch(spec, path); matched {
				return true
			}
			continue
		}
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// RegisterFileWatchers asks the client to watch config and schema files
func (s *Server) RegisterFileWatchers(context *glsp.Context) error {
	// An empty context (created with &glsp.Context{}) won't have Call initialized
	if context == nil || context.Call == nil {
		log.Info("Skipping file watcher registration (no client context)")
		return nil
	}

	watchers := s.fileWatchers()
	if len(watchers) == 0 {
		log.Info("No file watchers to register")
		return nil
	}

	params := protocol.RegistrationParams{
		Registrations: []protocol.Registration{
			{
				ID:     "gqlint-project-watcher",
				Method: "workspace/didChangeWatchedFiles",
				RegisterOptions: protocol.DidChangeWatchedFilesRegistrationOptions{
					Watchers: watchers,
				},
			},
		},
	}

	// client/registerCapability is a request. Calling it on the message handler
	// goroutine would deadlock waiting for a response it cannot read, and glsp
	// logs any error response itself.
	go func(ctx *glsp.Context) {
		var result any
		ctx.Call("client/registerCapability", params, &result)
		log.Debug("File watcher registration completed")
	}(context)

	log.Info("Sent file watcher registration request (%d watchers)", len(watchers))
	return nil
}

func (s *Server) fileWatchers() []protocol.FileSystemWatcher {
	root := s.RootPath()
	if root == "" {
		return nil
	}
	rootPattern := filepath.ToSlash(filepath.Clean(root))

	var watchers []protocol.FileSystemWatcher
	for _, name := range append(slices.Clone(config.ConfigFileNames), "package.json") {
		watchers = append(watchers, protocol.FileSystemWatcher{GlobPattern: rootPattern + "/" + name})
	}

	if project := s.Project(); project != nil {
		for _, spec := range project.Schema {
			if schema.IsRemote(spec) {
				continue
			}
			pattern := filepath.ToSlash(spec)
			if !filepath.IsAbs(spec) {
				pattern = rootPattern + "/" + pattern
			}
			watchers = append(watchers, protocol.FileSystemWatcher{GlobPattern: pattern})
		}
	}
	return watchers
}
