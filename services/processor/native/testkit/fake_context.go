// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package testkit

import (
	"github.com/orbs-network/membuffers/go"
)

// FakeContext is a map-backed types.Context for contract unit tests. It skips
// the transient-state layer entirely: writes land immediately, so a test can
// seed state before a call and inspect it after.
type FakeContext struct {
	records map[string][]byte
}

func NewFakeContext() *FakeContext {
	return &FakeContext{records: make(map[string][]byte)}
}

func (c *FakeContext) ReadBytes(key []byte) []byte {
	return c.records[string(key)]
}

func (c *FakeContext) ReadString(key []byte) string {
	return string(c.ReadBytes(key))
}

func (c *FakeContext) ReadUint32(key []byte) uint32 {
	bytes := c.ReadBytes(key)
	if len(bytes) == 0 {
		return 0
	}
	return membuffers.GetUint32(bytes)
}

func (c *FakeContext) ReadUint64(key []byte) uint64 {
	bytes := c.ReadBytes(key)
	if len(bytes) == 0 {
		return 0
	}
	return membuffers.GetUint64(bytes)
}

func (c *FakeContext) WriteBytes(key []byte, value []byte) {
	c.records[string(key)] = value
}

func (c *FakeContext) WriteString(key []byte, value string) {
	c.WriteBytes(key, []byte(value))
}

func (c *FakeContext) WriteUint32(key []byte, value uint32) {
	bytes := make([]byte, 4)
	membuffers.WriteUint32(bytes, value)
	c.WriteBytes(key, bytes)
}

func (c *FakeContext) WriteUint64(key []byte, value uint64) {
	bytes := make([]byte, 8)
	membuffers.WriteUint64(bytes, value)
	c.WriteBytes(key, bytes)
}
