// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/pkg/errors"
	"reflect"
	"runtime"
	"strings"
	"time"
)

type validator struct {
	errs []error
}

func NewValidator() *validator {
	return &validator{}
}

func (v *validator) Validate(cfg NodeConfig) error {
	v.requirePositive(cfg.MetricsReportInterval)
	v.requirePositive(cfg.GracefulShutdownTimeout)
	v.requireNonEmpty(cfg.HttpAddress)

	if len(v.errs) > 0 {
		return v.errs[0]
	}
	return nil
}

func (v *validator) requirePositive(d func() time.Duration) {
	if d() <= 0 {
		v.errs = append(v.errs, errors.Errorf("%s must be positive", funcName(d)))
	}
}

func (v *validator) requireNonEmpty(s func() string) {
	if s() == "" {
		v.errs = append(v.errs, errors.Errorf("%s must not be empty", funcName(s)))
	}
}

func funcName(i interface{}) string {
	fullName := runtime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()
	lastDot := strings.LastIndex(fullName, ".")
	return strings.TrimSuffix(fullName[lastDot+1:], "-fm")
}
