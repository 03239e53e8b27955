package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	"os"

	"runt/internal/lang"
	. "runt/internal/logger"
)

type Lang struct {
	Patterns    string `yaml:"patterns,omitempty"` // newline separated, keeps yaml flat
	Cmd         string `yaml:"cmd,omitempty"`
	DebugCmd    string `yaml:"debugcmd,omitempty"`
	CoverageCmd string `yaml:"coveragecmd,omitempty"`
	RootMarkers string `yaml:"rootmarkers,omitempty"` // space separated
	TestFile    string `yaml:"testfile,omitempty"`    // space separated globs
}

type Config struct {
	Langs map[string]Lang `yaml:"langs"`
}

// Load merges a yaml config over the built-in defaults and compiles the
// result into a profile registry. The file is named by RUNT_CONF, default
// runt.yaml; a missing file just means defaults. Invalid patterns reject
// that language's profile with a descriptive error.
func Load() (*lang.Registry, error) {
	merged := Config{Langs: map[string]Lang{}}
	for tag, conf := range DefaultConfig.Langs {
		merged.Langs[tag] = conf
	}

	conffilename, exists := os.LookupEnv("RUNT_CONF")
	if !exists { conffilename = "runt.yaml" }

	data, err := os.ReadFile(conffilename)
	if err == nil {
		var yamlConfig Config
		if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
			return nil, fmt.Errorf("config %s: %w", conffilename, err)
		}
		// yaml overrides field by field, absent fields keep defaults
		for tag, override := range yamlConfig.Langs {
			base := merged.Langs[tag]
			if override.Patterns != "" { base.Patterns = override.Patterns }
			if override.Cmd != "" { base.Cmd = override.Cmd }
			if override.DebugCmd != "" { base.DebugCmd = override.DebugCmd }
			if override.CoverageCmd != "" { base.CoverageCmd = override.CoverageCmd }
			if override.RootMarkers != "" { base.RootMarkers = override.RootMarkers }
			if override.TestFile != "" { base.TestFile = override.TestFile }
			merged.Langs[tag] = base
		}
	}

	registry := lang.NewRegistry()
	for tag, conf := range merged.Langs {
		profile, err := compile(tag, conf)
		if err != nil { return nil, err }
		registry.Register(tag, profile)
	}
	return registry, nil
}

func compile(tag string, conf Lang) (*lang.Profile, error) {
	patterns := splitLines(conf.Patterns)
	commands := []string{}
	if conf.Cmd != "" { commands = append(commands, conf.Cmd) }

	profile, err := lang.NewProfile(tag, patterns, commands)
	if err != nil { return nil, err }

	if conf.DebugCmd != "" { profile.DebugCommands = []string{conf.DebugCmd} }
	if conf.CoverageCmd != "" { profile.CoverageCommands = []string{conf.CoverageCmd} }
	profile.RootMarkers = strings.Fields(conf.RootMarkers)
	profile.TestFileNaming = strings.Fields(conf.TestFile)

	// a duplicated name token in one template is ambiguous in the wild,
	// keep it visible instead of fixing it silently
	if strings.Count(conf.Cmd, "%s") > 1 {
		Log.Info("config:", tag, "command template repeats %s, both get the test name")
	}

	return profile, nil
}

func splitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" { out = append(out, line) }
	}
	return out
}
