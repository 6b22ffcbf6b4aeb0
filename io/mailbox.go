package io

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/ezrec/pdp7/cpu"
)

//go:generate go tool stringer -linecomment -type=Policy

// Policy decides what Put does when the mailbox still holds a word.
// POLICY_OVERWRITE replaces the pending word and counts it;
// POLICY_BLOCK waits until the consumer drains it.
type Policy int

const (
	POLICY_OVERWRITE = Policy(iota) // overwrite
	POLICY_BLOCK                    // block
)

// ParsePolicy returns the policy with the given name.
func ParsePolicy(name string) (policy Policy, err error) {
	for _, policy = range []Policy{POLICY_OVERWRITE, POLICY_BLOCK} {
		if strings.EqualFold(name, policy.String()) {
			return
		}
	}

	policy = 0

	err = ErrPolicy
	return
}

// Stats counts mailbox traffic.
type Stats struct {
	Put         uint64 // Words accepted.
	Taken       uint64 // Words drained by the consumer.
	Overwritten uint64 // Pending words replaced before they were drained.
	Dropped     uint64 // Zero words, which cannot be told from an empty mailbox.
}

// Mailbox is a single slot channel from the CPU to one peripheral.
// One producer and one consumer may use it concurrently.
type Mailbox struct {
	Name   string
	Policy Policy

	slot chan cpu.Word

	put         atomic.Uint64
	taken       atomic.Uint64
	overwritten atomic.Uint64
	dropped     atomic.Uint64
}

var _ cpu.Mailbox = (*Mailbox)(nil)

// NewMailbox creates an empty mailbox.
func NewMailbox(name string, policy Policy) (mb *Mailbox) {
	mb = &Mailbox{
		Name:   name,
		Policy: policy,
		slot:   make(chan cpu.Word, 1),
	}

	return
}

// Put delivers a word. A zero word is dropped: zero is the empty state of
// the hardware register.
func (mb *Mailbox) Put(ctx context.Context, value cpu.Word) (err error) {
	value = value.Mask()
	if value == 0 {
		mb.dropped.Add(1)
		return
	}

	switch mb.Policy {
	case POLICY_BLOCK:
		select {
		case mb.slot <- value:
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
	default:
		for sent := false; !sent; {
			select {
			case mb.slot <- value:
				sent = true
			default:
				select {
				case <-mb.slot:
					mb.overwritten.Add(1)
				default:
					// Consumer drained it first; retry the send.
				}
			}
		}
	}

	mb.put.Add(1)

	return
}

// Empty is true when no word is pending.
func (mb *Mailbox) Empty() bool {
	return len(mb.slot) == 0
}

// TryTake drains the pending word, if any, without waiting.
func (mb *Mailbox) TryTake() (value cpu.Word, ok bool) {
	select {
	case value = <-mb.slot:
		ok = true
		mb.taken.Add(1)
	default:
	}

	return
}

// Stats returns a snapshot of the traffic counters.
func (mb *Mailbox) Stats() Stats {
	return Stats{
		Put:         mb.put.Load(),
		Taken:       mb.taken.Load(),
		Overwritten: mb.overwritten.Load(),
		Dropped:     mb.dropped.Load(),
	}
}
