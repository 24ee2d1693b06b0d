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

// Package config loads the agent's process-level inputs (spec.md §6)
// from a ParameterStore into a typed RuntimeConfig, the way
// perkeep.org/pkg/jsonconfig.Obj validates a loosely-typed map with
// OptionalString/RequiredString helpers rather than unmarshaling
// straight into a struct and hoping for the best.
package config

import (
	"fmt"
	"os"
)

// ParameterStore is the abstract device-parameter accessor spec.md §6
// calls out as an external collaborator: a TR-181-style key/value
// store the platform exposes (RFC/Device.DeepSleepTimer-shaped
// parameters, marker-file presence checks, etc).
type ParameterStore interface {
	// GetString returns the named parameter's value and whether it was
	// present at all.
	GetString(name string) (value string, ok bool)
	// FileExists reports whether a marker file (e.g.
	// /tmp/.EnableOCSPStapling) is present.
	FileExists(path string) bool
}

// Loader reads a ParameterStore into a RuntimeConfig.
type Loader struct {
	Store ParameterStore
}

// RuntimeConfig is the typed result of loading every parameter
// spec.md §6 enumerates, still address-agnostic (it does not itself
// build a runtimectx.RuntimeContext; cmd/loguploader does that final
// assembly once CLI overrides are applied).
type RuntimeConfig struct {
	MainLogDir     string
	DCMLogDir      string
	DRILogDir      string
	UploadURL      string
	RRDIssueType   string
	DisableUnsched bool
	EncryptUpload  bool
	OCSPEnabled    bool
}

const (
	keyLogPath           = "LOG_PATH"
	keyDCMLogPath        = "DCM_LOG_PATH"
	keyDRILogPath        = "DRI_LOG_PATH"
	keyUploadEndpointURL = "LOG_UPLOAD_ENDPOINT_URL"
	keyRDKRemoteIssue    = "RDKRemoteDebugger.IssueType"
	keyDisableUnsched    = "UploadLogsOnUnscheduledReboot.Disable"
	keyEncryptUpload     = "EncryptCloudUpload.Enable"

	ocspStaplingMarker = "/tmp/.EnableOCSPStapling"
	ocspCAMarker       = "/tmp/.EnableOCSPCA"

	defaultMainLogDir = "/opt/logs"
)

// Load reads every parameter spec.md §6 names, applying the one
// documented default (main log dir) and failing only for the upload
// URL, which has no sane default (RequiredString-style).
func (l Loader) Load() (RuntimeConfig, error) {
	cfg := RuntimeConfig{}

	cfg.MainLogDir = l.optionalString(keyLogPath, defaultMainLogDir)
	cfg.DCMLogDir, _ = l.Store.GetString(keyDCMLogPath)
	cfg.DRILogDir, _ = l.Store.GetString(keyDRILogPath)
	cfg.RRDIssueType, _ = l.Store.GetString(keyRDKRemoteIssue)

	uploadURL, ok := l.Store.GetString(keyUploadEndpointURL)
	if !ok || uploadURL == "" {
		return cfg, fmt.Errorf("config: required parameter %s is missing", keyUploadEndpointURL)
	}
	cfg.UploadURL = uploadURL

	cfg.DisableUnsched = l.optionalBool(keyDisableUnsched, false)
	cfg.EncryptUpload = l.optionalBool(keyEncryptUpload, false)
	cfg.OCSPEnabled = l.Store.FileExists(ocspStaplingMarker) || l.Store.FileExists(ocspCAMarker)

	return cfg, nil
}

func (l Loader) optionalString(key, def string) string {
	if v, ok := l.Store.GetString(key); ok && v != "" {
		return v
	}
	return def
}

func (l Loader) optionalBool(key string, def bool) bool {
	v, ok := l.Store.GetString(key)
	if !ok {
		return def
	}
	return v == "true" || v == "1"
}

// EnvParameterStore reads parameters from the process environment,
// for local testing and CI invocation outside a real STB (spec.md
// §A.3 / SPEC_FULL.md A.3): each TR-181-style key maps to an
// upper-snake env var (dots and dashes become underscores).
type EnvParameterStore struct{}

func (EnvParameterStore) GetString(name string) (string, bool) {
	return os.LookupEnv(envKey(name))
}

func (EnvParameterStore) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func envKey(name string) string {
	out := make([]byte, 0, len(name)+6)
	out = append(out, "STBLOGUPLOAD_"...)
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '.' || c == '-':
			out = append(out, '_')
		case c >= 'a' && c <= 'z':
			out = append(out, c-'a'+'A')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
