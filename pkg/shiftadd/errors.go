// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package shiftadd

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies the failures which can arise during synthesis.
type ErrorKind uint8

const (
	// InvalidInput indicates a request which cannot be satisfied, such as a
	// negative constant or a zero input width.
	InvalidInput ErrorKind = iota
	// InternalInconsistency indicates that an invariant of a DAG was found to
	// be broken, for example a parent which does not reference its child.
	InternalInconsistency
	// UnsupportedCombination indicates an operator which a given computation
	// does not know how to handle.
	UnsupportedCombination
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case InternalInconsistency:
		return "internal inconsistency"
	case UnsupportedCombination:
		return "unsupported combination"
	}
	//
	return fmt.Sprintf("error kind %d", uint8(k))
}

// SynthesisError is returned by every failing synthesis operation.  Op names
// the failing operation.
type SynthesisError struct {
	Kind ErrorKind
	Op   string
	Msg  string
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Op, e.Msg, e.Kind)
}

// Errorf constructs a new synthesis error of the given kind.
func Errorf(kind ErrorKind, op string, format string, args ...any) error {
	return errors.WithStack(&SynthesisError{kind, op, fmt.Sprintf(format, args...)})
}

// IsKind checks whether err is (or wraps) a synthesis error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var serr *SynthesisError
	//
	return errors.As(err, &serr) && serr.Kind == kind
}
