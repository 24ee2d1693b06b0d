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

package status

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriterWritesStateAndTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.txt")
	w := Writer{Path: path}
	at := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)

	if err := w.Write(InProgress, at); err != nil {
		t.Fatalf("Write: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("wrote %d lines, want 2: %q", len(lines), string(b))
	}
	if lines[0] != string(InProgress) {
		t.Errorf("first line = %q, want %q", lines[0], InProgress)
	}
}

func TestWriterDefaultsPath(t *testing.T) {
	w := Writer{}
	if w.path() != DefaultPath {
		t.Errorf("path() = %q, want %q", w.path(), DefaultPath)
	}
}

func TestWriterOverwritesPreviousState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.txt")
	w := Writer{Path: path}
	now := time.Now()

	if err := w.Write(Triggered, now); err != nil {
		t.Fatalf("Write(Triggered): %v", err)
	}
	if err := w.Write(Complete, now); err != nil {
		t.Fatalf("Write(Complete): %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(b), string(Complete)) {
		t.Errorf("final content = %q, want it to start with %q", string(b), Complete)
	}
}
