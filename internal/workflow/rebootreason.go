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
	"os"
	"strings"
)

// FileRebootReasonChecker implements strategy.RebootReasonChecker by
// reading the plain-text previous-reboot-reason file the platform
// writes (spec.md §4.2.2, eligibility rule c).
type FileRebootReasonChecker struct {
	Path string
}

func (c FileRebootReasonChecker) WasScheduledOrMaintenance() bool {
	b, err := os.ReadFile(c.Path)
	if err != nil {
		return false
	}
	s := string(b)
	return strings.Contains(s, "Scheduled Reboot") || strings.Contains(s, "MAINTENANCE_REBOOT")
}
