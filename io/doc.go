// Package io provides the devices between the PDP-7 processor and the host:
// single word mailboxes that carry output to a peripheral, and the keyboard
// that feeds the KSF and KRB instructions.
package io
