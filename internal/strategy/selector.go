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

// Package strategy implements the strategy selector (C6): an ordered
// cascade that picks exactly one of seven strategies per invocation
// (spec.md §4.1), plus channel selection.
package strategy

import (
	"os"
	"time"

	"github.com/rdkcentral/stb-logupload-agent/internal/collector"
	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
)

// RebootReasonChecker answers whether the device's last reboot reason
// indicates a scheduled/maintenance reboot. Select does not use it;
// the Reboot workflow's eligibility check does, so that check can be
// exercised without a real reboot-reason file.
type RebootReasonChecker interface {
	// WasScheduledOrMaintenance reports whether the previous reboot
	// reason file contains "Scheduled Reboot" or "MAINTENANCE_REBOOT".
	WasScheduledOrMaintenance() bool
}

// Select runs the §4.1 cascade and returns exactly one strategy. The
// first matching rule wins; it never has side effects of its own.
func Select(rc *runtimectx.RuntimeContext) (runtimectx.Strategy, error) {
	if rc.Flags.RRD {
		return runtimectx.StrategyRRD, nil
	}
	if rc.Settings.PrivacyOptOut {
		return runtimectx.StrategyPrivacyAbort, nil
	}

	prevBootExists := dirExists(rc.Paths.PrevBootLogDir)
	if prevBootExists {
		hasLogs, err := collector.HasLogs(rc.Paths.PrevBootLogDir)
		if err != nil {
			return runtimectx.StrategyUnknown, err
		}
		if !hasLogs {
			return runtimectx.StrategyNoLogs, nil
		}
	} else {
		return runtimectx.StrategyNoLogs, nil
	}

	if rc.Flags.TriggerType == runtimectx.TriggerTypeOnDemand {
		return runtimectx.StrategyOnDemand, nil
	}
	if !rc.Flags.DCM {
		return runtimectx.StrategyNonDcm, nil
	}
	if rc.Flags.UploadOnReboot && rc.Flags.Flag {
		return runtimectx.StrategyReboot, nil
	}
	return runtimectx.StrategyDcm, nil
}

func dirExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// SelectChannels runs the §4.1 channel-selection cascade, deciding
// primary/fallback from the block-marker state at "now".
func SelectChannels(rc *runtimectx.RuntimeContext, directBlockedAt, codebigBlockedAt time.Time, now time.Time) (primary, fallback runtimectx.Channel) {
	directBlocked := isBlocked(directBlockedAt, rc.Retry.BlockDurationDirect, now)
	codebigBlocked := isBlocked(codebigBlockedAt, rc.Retry.BlockDurationCodeBig, now)

	switch {
	case !directBlocked && !codebigBlocked:
		return runtimectx.ChannelDirect, runtimectx.ChannelCodeBig
	case directBlocked && !codebigBlocked:
		return runtimectx.ChannelCodeBig, runtimectx.ChannelNone
	case !directBlocked && codebigBlocked:
		return runtimectx.ChannelDirect, runtimectx.ChannelNone
	default:
		return runtimectx.ChannelNone, runtimectx.ChannelNone
	}
}

// isBlocked reports whether a block marker last touched at markedAt
// is still within duration of now. A zero markedAt means "no marker":
// never blocked.
func isBlocked(markedAt time.Time, duration time.Duration, now time.Time) bool {
	if markedAt.IsZero() {
		return false
	}
	return now.Sub(markedAt) < duration
}
