package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"healthchat/pkg/ai"
	"healthchat/pkg/config"
	"healthchat/pkg/credential"
	"healthchat/pkg/logging"
	"healthchat/pkg/ui"
)

// newCompleter is swapped out in tests.
var newCompleter ui.CompleterFactory = ui.DefaultCompleterFactory

type appEnv struct {
	cfg     config.Config
	cfgPath string
	store   *credential.Store
	key     *credential.Setting
}

// loadEnv reads the config, starts file logging and opens the credential
// store next to the config file. Logging problems are reported on errOut
// and are not fatal.
func loadEnv(opts *rootOptions, errOut io.Writer) (*appEnv, error) {
	cfgPath := strings.TrimSpace(opts.configPath)
	if cfgPath == "" {
		cfgPath = config.GetConfigPath()
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgPath, err)
	}

	dir := filepath.Dir(cfgPath)
	if strings.TrimSpace(cfg.LogFile) == "" {
		cfg.LogFile = filepath.Join(dir, "logs", "healthchat.log")
	}
	if _, err := logging.Init(cfg); err != nil {
		fmt.Fprintf(errOut, "warning: logging disabled: %v\n", err)
	}

	store := credential.NewStore(filepath.Join(dir, "credentials.json"))
	name := ai.CredentialNameFor(ai.ProviderType(cfg.LLMProvider))
	return &appEnv{
		cfg:     cfg,
		cfgPath: cfgPath,
		store:   store,
		key:     credential.NewSetting(store, name),
	}, nil
}
