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

package retry

import (
	"testing"

	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
	"github.com/rdkcentral/stb-logupload-agent/internal/upload/classify"
)

func policy() runtimectx.RetryPolicy {
	return runtimectx.RetryPolicy{MaxAttemptsDirect: 3, MaxAttemptsCodeBig: 3}
}

func TestControllerRetriesUnderCap(t *testing.T) {
	c := &Controller{Policy: policy()}
	sess := &runtimectx.Session{Primary: runtimectx.ChannelDirect, Fallback: runtimectx.ChannelCodeBig}
	sess.Direct.Count = 1
	sess.Direct.LastHTTPStatus = 500

	got := c.Next(sess, runtimectx.ChannelDirect, classify.KindHTTPRetryable)
	if got != DecisionRetrySameChannel {
		t.Fatalf("Next() = %v, want DecisionRetrySameChannel", got)
	}
}

func TestControllerSwapsAtCap(t *testing.T) {
	c := &Controller{Policy: policy()}
	sess := &runtimectx.Session{Primary: runtimectx.ChannelDirect, Fallback: runtimectx.ChannelCodeBig}
	sess.Direct.Count = 3
	sess.Direct.LastHTTPStatus = 500

	got := c.Next(sess, runtimectx.ChannelDirect, classify.KindHTTPRetryable)
	if got != DecisionSwapChannel {
		t.Fatalf("Next() = %v, want DecisionSwapChannel", got)
	}
}

func TestControllerGivesUpWithNoFallback(t *testing.T) {
	c := &Controller{Policy: policy()}
	sess := &runtimectx.Session{Primary: runtimectx.ChannelDirect, Fallback: runtimectx.ChannelNone}
	sess.Direct.Count = 3
	sess.Direct.LastHTTPStatus = 500

	got := c.Next(sess, runtimectx.ChannelDirect, classify.KindHTTPRetryable)
	if got != DecisionGiveUp {
		t.Fatalf("Next() = %v, want DecisionGiveUp", got)
	}
}

func TestControllerGivesUpAfterFallbackUsed(t *testing.T) {
	c := &Controller{Policy: policy()}
	sess := &runtimectx.Session{Primary: runtimectx.ChannelDirect, Fallback: runtimectx.ChannelCodeBig, UsedFallback: true}
	sess.CodeBig.Count = 3
	sess.CodeBig.LastHTTPStatus = 500

	got := c.Next(sess, runtimectx.ChannelCodeBig, classify.KindHTTPRetryable)
	if got != DecisionGiveUp {
		t.Fatalf("Next() = %v, want DecisionGiveUp", got)
	}
}

// TestControllerNeverRetriesTerminal covers spec.md §8's "no retry
// after terminal classification" property: even with attempt budget
// remaining, a terminal kind swaps or gives up immediately.
func TestControllerNeverRetriesTerminal(t *testing.T) {
	for _, kind := range []classify.Kind{classify.KindHTTPTerminal, classify.KindCertificateError, classify.KindUploadBlocked, classify.KindTransportError} {
		c := &Controller{Policy: policy()}
		sess := &runtimectx.Session{Primary: runtimectx.ChannelDirect, Fallback: runtimectx.ChannelCodeBig}
		sess.Direct.Count = 1        // well under cap
		sess.Direct.LastHTTPStatus = 500 // irrelevant for these kinds, but set to confirm it's ignored

		got := c.Next(sess, runtimectx.ChannelDirect, kind)
		if got == DecisionRetrySameChannel {
			t.Errorf("Next() with terminal kind %v = RetrySameChannel, want Swap or GiveUp", kind)
		}
	}
}

// TestControllerHTTPZeroNeverRetriesSameChannel covers spec.md §4.5's
// "Session's HTTP == 0 → false: network failure triggers fallback,
// not retry": a KindHTTPRetryable classification with no observed
// HTTP status at all must not retry the same channel, even under cap.
func TestControllerHTTPZeroNeverRetriesSameChannel(t *testing.T) {
	c := &Controller{Policy: policy()}
	sess := &runtimectx.Session{Primary: runtimectx.ChannelDirect, Fallback: runtimectx.ChannelCodeBig}
	sess.Direct.Count = 1 // well under cap
	sess.Direct.LastHTTPStatus = 0

	got := c.Next(sess, runtimectx.ChannelDirect, classify.KindHTTPRetryable)
	if got != DecisionSwapChannel {
		t.Fatalf("Next() with HTTP==0 = %v, want DecisionSwapChannel", got)
	}
}

func TestControllerNeverSwapsBack(t *testing.T) {
	c := &Controller{Policy: policy()}
	sess := &runtimectx.Session{Primary: runtimectx.ChannelDirect, Fallback: runtimectx.ChannelCodeBig}
	sess.CodeBig.Count = 3
	sess.CodeBig.LastHTTPStatus = 500

	got := c.Next(sess, runtimectx.ChannelCodeBig, classify.KindHTTPRetryable)
	if got != DecisionGiveUp {
		t.Fatalf("Next() on fallback channel at cap = %v, want DecisionGiveUp (never swaps back to Primary)", got)
	}
}

func TestAcquireSerializesAndReleases(t *testing.T) {
	c := &Controller{Policy: policy()}
	release := c.Acquire()
	done := make(chan struct{})
	go func() {
		r2 := c.Acquire()
		r2()
		close(done)
	}()
	release()
	<-done
}
