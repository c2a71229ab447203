package locking

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyMutex()
	counter := 0
	var wg sync.WaitGroup

	const n = 100
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("same-key")
			defer km.Unlock("same-key")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, n, counter)
	assert.Equal(t, 0, km.Len())
}

func TestKeyMutex_DistinctKeysProceedConcurrently(t *testing.T) {
	km := NewKeyMutex()
	km.Lock("a")
	defer km.Unlock("a")

	done := make(chan struct{})
	go func() {
		km.Lock("b")
		defer km.Unlock("b")
		close(done)
	}()

	<-done // must not deadlock: distinct keys never block each other
}
