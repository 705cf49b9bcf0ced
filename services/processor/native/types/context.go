// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

// Context is the storage capability handle for a single contract call. The
// virtual machine creates one per call, scoped to the calling contract's key
// space and to the method's declared AccessScope.
//
// Reads never fail: a key that was never written returns the type's zero
// value. Writes go to the call's transient state and become durable only if
// the call returns without error. A failed invariant inside the capability
// (write under a read-only scope, storage access failure) panics, which the
// processor surfaces as an aborted call.
type Context interface {
	ReadBytes(key []byte) []byte
	ReadString(key []byte) string
	ReadUint32(key []byte) uint32
	ReadUint64(key []byte) uint64

	WriteBytes(key []byte, value []byte)
	WriteString(key []byte, value string)
	WriteUint32(key []byte, value uint32)
	WriteUint64(key []byte, value uint64)
}
