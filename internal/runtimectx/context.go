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

// Package runtimectx holds the agent's immutable per-invocation
// configuration (RuntimeContext) and mutable per-invocation state
// (Session). Nothing here is shared across processes or goroutines;
// a RuntimeContext is built once, up front, by bootstrap.RuntimeContext,
// which both commands call.
package runtimectx

import "time"

// Channel identifies an upload transport.
type Channel int

const (
	ChannelNone Channel = iota
	ChannelDirect
	ChannelCodeBig
)

func (c Channel) String() string {
	switch c {
	case ChannelDirect:
		return "Direct"
	case ChannelCodeBig:
		return "CodeBig"
	default:
		return "None"
	}
}

// DeviceType values with behavioral effects (see RuntimeContext.DeviceType).
const MediaClientDeviceType = "mediaclient"

// Paths collects every filesystem location the agent reads from or
// writes to. All are absolute paths resolved once at startup.
type Paths struct {
	MainLogDir        string
	PrevBootLogDir    string
	PrevBootBackupDir string
	DCMBatchDir       string
	DCMSettingsFile   string
	DRILogDir         string
	RRDArchivePath    string
	TelemetryDir      string
	TempDir           string
	CertDir           string
}

// Endpoints collects the network destinations the agent talks to.
type Endpoints struct {
	UploadURL       string
	ProxyBucketHost string // empty disables proxy fallback
}

// Flags are the external trigger/feature flags read at startup.
type Flags struct {
	RRD            bool
	DCM            bool
	Flag           bool // general "flag" from spec.md §3
	UploadOnReboot bool
	TriggerType    int
}

const (
	TriggerTypeOnDemand = 5
)

// Settings are the external device/TR-181 settings read at startup.
type Settings struct {
	PrivacyOptOut                     bool
	OCSPEnabled                       bool
	EncryptCloudUpload                bool
	DirectChannelBlocked              bool
	CodeBigChannelBlocked             bool
	IncludePCAP                       bool
	IncludeDRI                        bool
	TLSEnabled                        bool
	UploadOnUnscheduledRebootDisabled bool
}

// RetryPolicy configures per-channel attempt caps and block durations.
type RetryPolicy struct {
	MaxAttemptsDirect  int
	MaxAttemptsCodeBig int

	BlockDurationDirect  time.Duration
	BlockDurationCodeBig time.Duration

	HTTPTimeout          time.Duration
	TLSHandshakeTimeout  time.Duration
}

// DefaultRetryPolicy matches spec.md §3: Direct blocked 24h, CodeBig
// blocked 30m.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttemptsDirect:    3,
		MaxAttemptsCodeBig:   3,
		BlockDurationDirect:  24 * time.Hour,
		BlockDurationCodeBig: 30 * time.Minute,
		HTTPTimeout:          30 * time.Second,
		TLSHandshakeTimeout:  10 * time.Second,
	}
}

// Identity carries the device's fixed identity.
type Identity struct {
	MAC        string // canonical form, e.g. "AA:BB:CC:DD:EE:FF"
	DeviceType string
	BuildType  string
}

// MACCompact returns the MAC address with colons stripped, used to
// build archive filenames (spec.md §6).
func (id Identity) MACCompact() string {
	out := make([]byte, 0, len(id.MAC))
	for i := 0; i < len(id.MAC); i++ {
		if id.MAC[i] != ':' {
			out = append(out, id.MAC[i])
		}
	}
	return string(out)
}

// RuntimeContext is immutable after construction (spec.md §3).
type RuntimeContext struct {
	Identity  Identity
	Paths     Paths
	Endpoints Endpoints
	Flags     Flags
	Settings  Settings
	Retry     RetryPolicy
}

// IsMediaClient reports whether the device type enables PCAP
// collection and proxy fallback (spec.md §3).
func (rc *RuntimeContext) IsMediaClient() bool {
	return rc.Identity.DeviceType == MediaClientDeviceType
}
