// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"github.com/pkg/errors"
)

var ErrAlreadyInitialized = errors.New("already initialized")

// InitializeOnce is the one-time-initialization guard shared by every contract
// with a constructor-like method: a boolean flag under flagKey plus a
// precondition check. The first call runs initialize and raises the flag;
// every later call fails with ErrAlreadyInitialized without touching state.
//
// initialize runs before the flag is written, so if the call aborts midway the
// flag stays down and a retry will attempt the initialization again.
func InitializeOnce(ctx Context, flagKey []byte, initialize func()) error {
	if ctx.ReadUint32(flagKey) != 0 {
		return ErrAlreadyInitialized
	}
	initialize()
	ctx.WriteUint32(flagKey, 1)
	return nil
}
