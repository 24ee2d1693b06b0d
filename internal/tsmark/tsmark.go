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

// Package tsmark implements the timestamp marker (C5): mark() renames
// every regular file in a directory with a time prefix; unmark()
// reverses it. The two operations must round-trip (spec.md §4.3,
// §8 item 3).
package tsmark

import (
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// stampLayout produces "MM-DD-YY-HH-MMAM/PM-", matching
// archive.stampLayout plus a trailing hyphen.
const stampLayout = "01-02-06-03-04PM-"

// legacyStampPattern recognizes a timestamp of shape
// NN-NN-NN-NN-NN{AM|PM}- at the head of a name, used by unmark when
// the marker's own stamp isn't available (spec.md §4.3).
var legacyStampPattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{2}-\d{2}-\d{2}(AM|PM)-`)

// Marker marks and unmarks one directory's files with a single
// process's stamp, matching spec.md's note that the stamp is
// remembered in process memory, not persisted across invocations.
type Marker struct {
	stamp string // set by Mark; "" until then
}

// Mark computes stamp = strftime("%m-%d-%y-%I-%M%p-", now) and renames
// every regular file in dir whose name does not already start with
// stamp. If excludeNames is non-empty, files with those exact
// basenames are skipped (the UploadLogsNow variant excludes
// reboot.log and ABLReason.txt, spec.md §9 open question 2).
func (m *Marker) Mark(dir string, now time.Time, excludeNames ...string) error {
	m.stamp = now.Format(stampLayout)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	excluded := make(map[string]bool, len(excludeNames))
	for _, n := range excludeNames {
		excluded[n] = true
	}
	for _, e := range entries {
		if e.IsDir() || excluded[e.Name()] {
			continue
		}
		name := e.Name()
		if len(name) >= len(m.stamp) && name[:len(m.stamp)] == m.stamp {
			continue
		}
		if err := os.Rename(filepath.Join(dir, name), filepath.Join(dir, m.stamp+name)); err != nil {
			return err
		}
	}
	return nil
}

// Unmark reverses Mark: every regular file in dir beginning with the
// stamp this Marker produced is renamed back by stripping that
// prefix. If this Marker never called Mark (a fresh process), it
// falls back to pattern-detecting a legacy timestamp prefix and
// stripping that instead.
func (m *Marker) Unmark(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		var stripped string
		if m.stamp != "" && len(name) >= len(m.stamp) && name[:len(m.stamp)] == m.stamp {
			stripped = name[len(m.stamp):]
		} else if loc := legacyStampPattern.FindStringIndex(name); m.stamp == "" && loc != nil {
			stripped = name[loc[1]:]
		} else {
			continue
		}
		if stripped == "" {
			continue
		}
		if err := os.Rename(filepath.Join(dir, name), filepath.Join(dir, stripped)); err != nil {
			return err
		}
	}
	return nil
}

// Stamp returns the stamp produced by the last Mark call, or "" if
// Mark has not been called.
func (m *Marker) Stamp() string {
	return m.stamp
}
