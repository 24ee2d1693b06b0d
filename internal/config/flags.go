/*
Copyright 2026 RDK Management

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import "github.com/spf13/pflag"

// CLIOverrides holds the command-line flags cmd/loguploader accepts
// for local testing and CI invocation outside a real STB, grounded in
// vjache-cie/cmd/cie's and Dash-Industry-Forum-livesim2's pflag.FlagSet
// setup (SPEC_FULL.md A.3).
type CLIOverrides struct {
	MainLogDir  string
	UploadURL   string
	TriggerType int
	LogFormat   string
	LogLevel    string
}

// RegisterFlags binds fs to a CLIOverrides. Call fs.Parse(os.Args[1:])
// afterward.
func RegisterFlags(fs *pflag.FlagSet) *CLIOverrides {
	o := &CLIOverrides{}
	fs.StringVar(&o.MainLogDir, "main-log-dir", "", "override the main log directory")
	fs.StringVar(&o.UploadURL, "upload-url", "", "override the log-upload endpoint URL")
	fs.IntVar(&o.TriggerType, "trigger-type", 0, "override the trigger type (5 = on-demand)")
	fs.StringVar(&o.LogFormat, "log-format", "json", "log output format: json, consolepretty, discard")
	fs.StringVar(&o.LogLevel, "log-level", "info", "log level")
	return o
}

// Apply overlays the non-empty MainLogDir and UploadURL overrides onto
// cfg, returning the merged result. TriggerType is not part of
// RuntimeConfig; the caller applies it to the RuntimeContext. LogFormat
// and LogLevel are read directly when building the logger.
func (o *CLIOverrides) Apply(cfg RuntimeConfig) RuntimeConfig {
	if o.MainLogDir != "" {
		cfg.MainLogDir = o.MainLogDir
	}
	if o.UploadURL != "" {
		cfg.UploadURL = o.UploadURL
	}
	return cfg
}
