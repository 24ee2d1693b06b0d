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

// Package workflow is the strategy workflow engine (C7): it drives
// each strategy's four phases (setup, archive, upload, cleanup) in
// order and guarantees cleanup runs exactly once, the way
// perkeep.org/pkg/client's upload path always closes its pipe/reader
// in a deferred statement regardless of how the upload itself failed.
package workflow

import (
	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
)

// Phase is one of setup/archive/upload. It mutates sess in place and
// reports success by returning a nil error.
type Phase func(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error

// CleanupPhase always runs; uploadSucceeded tells it which branch of
// spec.md §3's archive-lifecycle invariant applies.
type CleanupPhase func(rc *runtimectx.RuntimeContext, sess *runtimectx.Session, uploadSucceeded bool) error

// Handler is the tagged-union-free polymorphic type spec.md §9
// prescribes in place of the original's function-pointer handler
// table: one struct, four fields, one driver.
type Handler struct {
	Setup   Phase
	Archive Phase
	Upload  Phase
	Cleanup CleanupPhase
}

// Run executes setup → archive → upload → cleanup. If setup or
// archive fails, upload is skipped, but cleanup always runs with
// uploadSucceeded = false. If upload fails, cleanup still runs. The
// setup, archive or upload error is returned if there is one, and
// cleanup's error is then discarded; cleanup's error is returned only
// when the three earlier phases all succeeded.
func (h Handler) Run(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error {
	if err := h.Setup(rc, sess); err != nil {
		h.Cleanup(rc, sess, false)
		return err
	}
	if err := h.Archive(rc, sess); err != nil {
		h.Cleanup(rc, sess, false)
		return err
	}

	uploadErr := h.Upload(rc, sess)
	uploadSucceeded := uploadErr == nil && sess.Success
	cleanupErr := h.Cleanup(rc, sess, uploadSucceeded)

	if uploadErr != nil {
		return uploadErr
	}
	return cleanupErr
}
