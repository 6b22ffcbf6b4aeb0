package io

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/pdp7/cpu"
)

// take polls the mailbox the way a peripheral does, until a word arrives.
func take(ctx context.Context, mb *Mailbox) (value cpu.Word, err error) {
	for {
		var ok bool
		value, ok = mb.TryTake()
		if ok {
			return
		}

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		case <-time.After(10 * time.Microsecond):
		}
	}
}

func TestPolicy(t *testing.T) {
	assert := assert.New(t)

	policy, err := ParsePolicy("Block")
	assert.NoError(err)
	assert.Equal(POLICY_BLOCK, policy)
	assert.Equal("block", policy.String())
	assert.Equal("Policy(5)", Policy(5).String())

	policy, err = ParsePolicy("overwrite")
	assert.NoError(err)
	assert.Equal(POLICY_OVERWRITE, policy)

	_, err = ParsePolicy("queue")
	assert.Equal(ErrPolicy, err)
}

func TestMailboxOverwrite(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	mb := NewMailbox("tty", POLICY_OVERWRITE)
	assert.True(mb.Empty())

	_, ok := mb.TryTake()
	assert.False(ok)

	assert.NoError(mb.Put(ctx, 0o101))
	assert.False(mb.Empty())
	assert.NoError(mb.Put(ctx, 0o102))

	value, ok := mb.TryTake()
	assert.True(ok)
	assert.Equal(cpu.Word(0o102), value)
	assert.True(mb.Empty())

	assert.Equal(Stats{Put: 2, Taken: 1, Overwritten: 1}, mb.Stats())
}

func TestMailboxZero(t *testing.T) {
	assert := assert.New(t)

	mb := NewMailbox("dpy", POLICY_BLOCK)
	assert.NoError(mb.Put(context.Background(), 0))
	assert.NoError(mb.Put(context.Background(), 0o1000000))
	assert.True(mb.Empty())
	assert.Equal(Stats{Dropped: 2}, mb.Stats())
}

func TestMailboxBlock(t *testing.T) {
	assert := assert.New(t)

	mb := NewMailbox("dpy", POLICY_BLOCK)
	assert.NoError(mb.Put(context.Background(), 1))

	// Full, and nobody draining.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := mb.Put(ctx, 2)
	assert.True(errors.Is(err, context.DeadlineExceeded))

	// A consumer lets every word through, in order.
	var wg sync.WaitGroup
	var got []cpu.Word
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 4 {
			value, err := take(context.Background(), mb)
			if err != nil {
				return
			}
			got = append(got, value)
		}
	}()

	for value := range cpu.Word(3) {
		assert.NoError(mb.Put(context.Background(), value+2))
	}
	wg.Wait()

	assert.Equal([]cpu.Word{1, 2, 3, 4}, got)
	assert.Equal(Stats{Put: 4, Taken: 4}, mb.Stats())
}

func TestMailboxConcurrent(t *testing.T) {
	assert := assert.New(t)

	mb := NewMailbox("tty", POLICY_OVERWRITE)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			_, err := take(ctx, mb)
			if err != nil {
				return
			}
		}
	}()

	for n := range 1000 {
		assert.NoError(mb.Put(context.Background(), cpu.Word(n+1)))
	}

	for !mb.Empty() {
		time.Sleep(time.Millisecond)
	}
	cancel()
	wg.Wait()

	stats := mb.Stats()
	assert.Equal(uint64(1000), stats.Put)
	assert.Equal(stats.Put, stats.Taken+stats.Overwritten)
}
