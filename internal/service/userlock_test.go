package service

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("userLocks", func() {
	It("serializes holders of the same user and forgets idle users", func() {
		locks := newUserLocks()

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			inside  int
			maxSeen int
		)
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := locks.Lock(7)
				defer unlock()

				mu.Lock()
				inside++
				maxSeen = max(maxSeen, inside)
				mu.Unlock()

				mu.Lock()
				inside--
				mu.Unlock()
			}()
		}
		wg.Wait()

		Expect(maxSeen).To(Equal(1))
		Expect(locks.len()).To(BeZero())
	})

	It("does not block other users", func() {
		locks := newUserLocks()
		unlockA := locks.Lock(1)
		defer unlockA()

		done := make(chan struct{})
		go func() {
			unlockB := locks.Lock(2)
			unlockB()
			close(done)
		}()
		Eventually(done).Should(BeClosed())
	})
})
