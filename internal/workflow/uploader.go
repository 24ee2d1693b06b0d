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

package workflow

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rdkcentral/stb-logupload-agent/internal/retry"
	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
	"github.com/rdkcentral/stb-logupload-agent/internal/telemetry"
	"github.com/rdkcentral/stb-logupload-agent/internal/upload/classify"
	"github.com/rdkcentral/stb-logupload-agent/internal/uploadpipe"
)

// Uploader wires C8 (the two-stage pipeline) and C9 (the retry/
// fallback controller) into the single "upload an archive" operation
// every strategy's upload phase calls. It holds no per-invocation
// state; Session carries that.
type Uploader struct {
	Pipeline *uploadpipe.Pipeline

	DirectTransport  uploadpipe.Transport
	CodeBigTransport uploadpipe.Transport

	RetryPolicy runtimectx.RetryPolicy
	Telemetry   telemetry.Sink
	Logger      zerolog.Logger
}

// Upload drives one logical upload: it runs the retry loop on
// session's primary channel, falls back to the secondary channel at
// most once (spec.md §4.5), and records success/failure into session.
// It returns nil in every case: upload failures are recorded in
// session.Success, and when no channel is available (Primary is
// ChannelNone) it counts EventUploadBlocked and sets Success to false.
func (u *Uploader) Upload(rc *runtimectx.RuntimeContext, sess *runtimectx.Session, archivePath, basename string, md5 uploadpipe.MD5Result) error {
	if sess.Primary == runtimectx.ChannelNone {
		if u.Telemetry != nil {
			u.Telemetry.Count(telemetry.EventUploadBlocked)
		}
		sess.Success = false
		return nil
	}

	controller := &retry.Controller{Policy: u.RetryPolicy}
	ch := sess.Primary

	for {
		transport := u.transportFor(ch)
		isMediaClient := rc.IsMediaClient()
		isDirectChannel := ch == runtimectx.ChannelDirect

		release := controller.Acquire()
		result, err := u.Pipeline.Attempt(transport, isMediaClient, isDirectChannel, archivePath, basename, md5)
		release()
		u.record(sess, ch, result)

		if err != nil {
			u.Logger.Warn().Err(err).Str("channel", ch.String()).Msg("upload attempt errored")
		}

		if result.Succeeded() {
			sess.Success = true
			if u.Telemetry != nil {
				u.Telemetry.Count(telemetry.EventUploadSuccess)
			}
			return nil
		}

		if u.Telemetry != nil {
			u.Telemetry.Count(telemetry.EventUploadFailed)
		}

		httpStatus, transportCode, host := u.observed(result, ch)
		kind := classify.FromAttempt(httpStatus, transportCode, host, err)
		var classifiedKind classify.Kind
		if kind != nil {
			classifiedKind = kind.Kind
			if classifiedKind == classify.KindCertificateError && u.Telemetry != nil {
				u.Telemetry.Value(telemetry.EventCertErrorSplit, fmt.Sprintf("STBLogUL, %d, %s", transportCode, host))
			}
		}

		switch controller.Next(sess, ch, classifiedKind) {
		case retry.DecisionRetrySameChannel:
			continue
		case retry.DecisionSwapChannel:
			sess.UsedFallback = true
			ch, sess.Primary, sess.Fallback = sess.Fallback, sess.Fallback, ch
			if u.Telemetry != nil {
				u.Telemetry.Count(telemetry.EventChannelFallback)
			}
			continue
		default: // DecisionGiveUp
			sess.Success = false
			return nil
		}
	}
}

func (u *Uploader) transportFor(ch runtimectx.Channel) uploadpipe.Transport {
	if ch == runtimectx.ChannelCodeBig {
		return u.CodeBigTransport
	}
	return u.DirectTransport
}

// record updates the session's per-channel counters after an attempt.
func (u *Uploader) record(sess *runtimectx.Session, ch runtimectx.Channel, result uploadpipe.AttemptResult) {
	attempts := sess.AttemptsFor(ch)
	attempts.Count++
	httpStatus, transportCode, _ := u.observed(result, ch)
	attempts.LastHTTPStatus = httpStatus
	attempts.LastTransportErr = transportCode
}

// observed reduces an AttemptResult down to the single (http,
// transport, host) triple the session and classifier reason about,
// per spec.md §4.4's verification rule: Stage A failure dominates: if
// it never reached Stage B, report Stage A's codes. Otherwise report
// whichever of Stage B/proxy actually ran last.
func (u *Uploader) observed(result uploadpipe.AttemptResult, ch runtimectx.Channel) (httpStatus, transportCode int, host string) {
	host = u.hostFor(ch)
	if result.StageATransportCode != 0 || result.StageAHTTPStatus != 200 {
		return result.StageAHTTPStatus, result.StageATransportCode, host
	}
	if result.UsedProxy {
		return result.ProxyHTTPStatus, result.ProxyTransportErr, host
	}
	return result.StageBHTTPStatus, result.StageBTransportCode, host
}

func (u *Uploader) hostFor(ch runtimectx.Channel) string {
	if ch == runtimectx.ChannelCodeBig {
		return "codebig"
	}
	return "direct"
}
