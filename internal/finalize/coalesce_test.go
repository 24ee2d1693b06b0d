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

package finalize

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestCoalescerConcurrentCallsAllSucceed(t *testing.T) {
	c := &Coalescer{}
	var calls int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	const n = 20
	errs := make([]error, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			<-start
			errs[i] = c.Do("same-key", func() error {
				atomic.AddInt32(&calls, 1)
				return nil
			})
		}()
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("call %d: Do() = %v, want nil", i, err)
		}
	}
	if got := atomic.LoadInt32(&calls); got < 1 || got > n {
		t.Errorf("underlying fn ran %d times, want between 1 and %d", got, n)
	}
}

func TestCoalescerDistinctKeysRunIndependently(t *testing.T) {
	c := &Coalescer{}
	var calls int32
	for _, key := range []string{"a", "b", "c"} {
		if err := c.Do(key, func() error {
			atomic.AddInt32(&calls, 1)
			return nil
		}); err != nil {
			t.Fatalf("Do(%s): %v", key, err)
		}
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (distinct keys never coalesce)", calls)
	}
}
