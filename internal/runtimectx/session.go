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

package runtimectx

import "time"

// Strategy is the one upload strategy chosen for this invocation
// (spec.md §4.1). It is selected exactly once, before any side
// effect.
type Strategy int

const (
	StrategyUnknown Strategy = iota
	StrategyRRD
	StrategyPrivacyAbort
	StrategyNoLogs
	StrategyOnDemand
	StrategyNonDcm
	StrategyReboot
	StrategyDcm
)

func (s Strategy) String() string {
	switch s {
	case StrategyRRD:
		return "RRD"
	case StrategyPrivacyAbort:
		return "PrivacyAbort"
	case StrategyNoLogs:
		return "NoLogs"
	case StrategyOnDemand:
		return "OnDemand"
	case StrategyNonDcm:
		return "NonDcm"
	case StrategyReboot:
		return "Reboot"
	case StrategyDcm:
		return "Dcm"
	default:
		return "Unknown"
	}
}

// UsesWorkflowEngine reports whether this strategy is driven by the
// four-phase engine (C7), as opposed to RRD/PrivacyAbort/NoLogs which
// short-circuit it (spec.md §4.2.4).
func (s Strategy) UsesWorkflowEngine() bool {
	switch s {
	case StrategyOnDemand, StrategyNonDcm, StrategyReboot, StrategyDcm:
		return true
	default:
		return false
	}
}

// ChannelAttempts tracks one channel's attempt count and last
// observed result codes within a single invocation.
type ChannelAttempts struct {
	Count           int
	LastHTTPStatus  int
	LastTransportErr int
}

// Session is the per-invocation mutable state (spec.md §3). A new
// Session is created per upload (the Reboot strategy's DRI archive
// gets a fresh Session with reset counters, per spec.md §4.2.2).
type Session struct {
	Strategy Strategy

	Primary  Channel
	Fallback Channel

	Direct  ChannelAttempts
	CodeBig ChannelAttempts

	UsedFallback bool
	Success      bool

	ArchiveFileName string
	ArchivePath     string

	// PresignedURL is the in-memory copy of the URL Stage A
	// returned, threaded directly into Stage B / proxy fallback
	// rather than re-read from the sidecar file (spec.md §9, open
	// question 1: this implementation prefers the in-memory copy).
	PresignedURL string
}

// AttemptsFor returns a pointer to the mutable attempt-tracking state
// for the given channel, so callers can increment/record in place.
func (s *Session) AttemptsFor(ch Channel) *ChannelAttempts {
	switch ch {
	case ChannelDirect:
		return &s.Direct
	case ChannelCodeBig:
		return &s.CodeBig
	default:
		return &ChannelAttempts{}
	}
}

// MaxAttempts returns the configured attempt cap for ch given policy.
func MaxAttempts(policy RetryPolicy, ch Channel) int {
	switch ch {
	case ChannelDirect:
		return policy.MaxAttemptsDirect
	case ChannelCodeBig:
		return policy.MaxAttemptsCodeBig
	default:
		return 0
	}
}

// BlockDuration returns the configured block duration for ch.
func BlockDuration(policy RetryPolicy, ch Channel) time.Duration {
	switch ch {
	case ChannelDirect:
		return policy.BlockDurationDirect
	case ChannelCodeBig:
		return policy.BlockDurationCodeBig
	default:
		return 0
	}
}
