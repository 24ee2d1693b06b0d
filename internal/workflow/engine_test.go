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
	"errors"
	"testing"

	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
)

// TestCleanupAlwaysRuns covers spec.md §8's "cleanup runs regardless of
// where the prior phases failed" property.
func TestCleanupAlwaysRuns(t *testing.T) {
	cases := []struct {
		name       string
		setupErr   error
		archiveErr error
		uploadErr  error
	}{
		{"setup fails", errors.New("setup boom"), nil, nil},
		{"archive fails", nil, errors.New("archive boom"), nil},
		{"upload fails", nil, nil, errors.New("upload boom")},
		{"all succeed", nil, nil, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var cleanupRan bool
			var cleanupSawUploadSucceeded bool

			h := Handler{
				Setup:   func(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error { return c.setupErr },
				Archive: func(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error { return c.archiveErr },
				Upload: func(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error {
					if c.uploadErr == nil {
						sess.Success = true
					}
					return c.uploadErr
				},
				Cleanup: func(rc *runtimectx.RuntimeContext, sess *runtimectx.Session, uploadSucceeded bool) error {
					cleanupRan = true
					cleanupSawUploadSucceeded = uploadSucceeded
					return nil
				},
			}

			err := h.Run(&runtimectx.RuntimeContext{}, &runtimectx.Session{})

			if !cleanupRan {
				t.Fatal("cleanup did not run")
			}

			wantErr := c.setupErr
			if wantErr == nil {
				wantErr = c.archiveErr
			}
			if wantErr == nil {
				wantErr = c.uploadErr
			}
			if (err == nil) != (wantErr == nil) {
				t.Errorf("Run() error = %v, want error presence matching %v", err, wantErr)
			}

			wantUploadSucceeded := c.setupErr == nil && c.archiveErr == nil && c.uploadErr == nil
			if cleanupSawUploadSucceeded != wantUploadSucceeded {
				t.Errorf("cleanup saw uploadSucceeded=%v, want %v", cleanupSawUploadSucceeded, wantUploadSucceeded)
			}
		})
	}
}

func TestUploadSkippedAfterSetupFailure(t *testing.T) {
	var uploadRan bool
	h := Handler{
		Setup:   func(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error { return errors.New("boom") },
		Archive: func(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error { return nil },
		Upload: func(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error {
			uploadRan = true
			return nil
		},
		Cleanup: func(rc *runtimectx.RuntimeContext, sess *runtimectx.Session, uploadSucceeded bool) error { return nil },
	}

	_ = h.Run(&runtimectx.RuntimeContext{}, &runtimectx.Session{})
	if uploadRan {
		t.Error("upload ran despite setup failing")
	}
}

func TestRunReturnsUploadErrorOverCleanupError(t *testing.T) {
	h := Handler{
		Setup:   func(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error { return nil },
		Archive: func(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error { return nil },
		Upload:  func(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error { return errors.New("upload boom") },
		Cleanup: func(rc *runtimectx.RuntimeContext, sess *runtimectx.Session, uploadSucceeded bool) error {
			return errors.New("cleanup boom")
		},
	}

	err := h.Run(&runtimectx.RuntimeContext{}, &runtimectx.Session{})
	if err == nil || err.Error() != "upload boom" {
		t.Errorf("Run() error = %v, want the upload error to take priority", err)
	}
}
