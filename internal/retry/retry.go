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

// Package retry is the retry/fallback controller (C9): it decides,
// after each classified attempt, whether to retry the same channel,
// swap to the fallback channel, or give up (spec.md §4.5). It never
// performs the attempt itself; it only counts and decides.
package retry

import (
	"sync"

	"go4.org/syncutil"

	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
	"github.com/rdkcentral/stb-logupload-agent/internal/upload/classify"
)

// Decision is what the controller tells the caller to do next.
type Decision int

const (
	// DecisionRetrySameChannel means try the current channel again.
	DecisionRetrySameChannel Decision = iota
	// DecisionSwapChannel means the current channel is exhausted or
	// terminally failed; move to the session's fallback channel.
	DecisionSwapChannel
	// DecisionGiveUp means no channel remains to try.
	DecisionGiveUp
)

// Controller tracks attempt counts per channel against a RetryPolicy
// and decides the next action after each classified failure.
//
// gate bounds in-flight attempt execution to one at a time, modeling
// spec.md §5's "single process, single thread, no intra-process
// parallelism" constraint as an explicit syncutil.Gate rather than
// leaving it as an unenforced assumption — the same pattern
// perkeep.org/pkg/importer/mastodon uses to bound concurrent API
// calls against a rate-limited host.
type Controller struct {
	Policy runtimectx.RetryPolicy

	gateOnce sync.Once
	gate     *syncutil.Gate
}

// Acquire blocks until the controller's single execution slot is
// free, then returns a release function the caller must invoke
// exactly once. Safe to call from the main session and a DRI
// session's uploader concurrently, should a future caller relax the
// single-thread assumption.
func (c *Controller) Acquire() (release func()) {
	c.gateOnce.Do(func() { c.gate = syncutil.NewGate(1) })
	c.gate.Start()
	return c.gate.Done
}

// Next records one failed attempt against ch (via session.Session's
// counters, which the caller updates before calling Next) and decides
// what to do, given the attempt's classification.
//
// Terminal classifications (spec.md §4.4/§7: HTTP 404, or any
// certificate-coded transport error) never retry the same channel —
// they fall straight to swap-or-give-up, regardless of remaining
// attempt budget. Retryable classifications retry the same channel
// until its attempt cap is reached, then swap.
func (c *Controller) Next(sess *runtimectx.Session, ch runtimectx.Channel, kind classify.Kind) Decision {
	attempts := sess.AttemptsFor(ch)
	fallback := fallbackFor(sess, ch)

	if isTerminal(kind, attempts.LastHTTPStatus) {
		if fallback == runtimectx.ChannelNone || sess.UsedFallback {
			return DecisionGiveUp
		}
		return DecisionSwapChannel
	}

	max := runtimectx.MaxAttempts(c.Policy, ch)
	if attempts.Count < max {
		return DecisionRetrySameChannel
	}
	if fallback == runtimectx.ChannelNone || sess.UsedFallback {
		return DecisionGiveUp
	}
	return DecisionSwapChannel
}

// isTerminal reports whether kind should never be retried on the same
// channel, per spec.md §4.4/§4.5/§7: HTTP terminal (404), certificate
// errors, and pure transport/network failures all indicate the
// channel itself cannot succeed right now and should swap to the
// fallback channel instead of retrying. A retryable HTTP classification
// with no status at all (httpStatus == 0, meaning no response was
// observed) is treated the same way, per spec.md §4.5's "Session's
// HTTP == 0 → false: network failure triggers fallback, not retry".
func isTerminal(kind classify.Kind, httpStatus int) bool {
	switch kind {
	case classify.KindHTTPTerminal, classify.KindCertificateError, classify.KindUploadBlocked, classify.KindTransportError:
		return true
	case classify.KindHTTPRetryable:
		return httpStatus == 0
	default:
		return false
	}
}

// fallbackFor reports the channel to swap to from ch, given the
// session's recorded primary/fallback pair. Swapping only ever moves
// from Primary to Fallback; there is no swap back.
func fallbackFor(sess *runtimectx.Session, ch runtimectx.Channel) runtimectx.Channel {
	if ch == sess.Primary {
		return sess.Fallback
	}
	return runtimectx.ChannelNone
}
