// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
	"strings"
)

// Common reverts shared by the built-in contracts.
var (
	ErrZeroAddress           = New("ZeroAddress")
	ErrInvalidAmount         = New("InvalidAmount")
	ErrInvalidInitialization = New("InvalidInitialization")
)

// Error is a named revert carrying an optional diagnostic payload.
// Two errors match with errors.Is when their names are equal.
type Error struct {
	name string
	args []any
}

func New(name string, args ...any) *Error {
	return &Error{
		name: name,
		args: args,
	}
}

// With returns a revert of the same kind with the given payload.
func (e *Error) With(args ...any) *Error {
	return New(e.name, args...)
}

func (e *Error) Name() string {
	return e.name
}

func (e *Error) Args() []any {
	return e.args
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.name)
	b.WriteByte('(')
	for i, arg := range e.args {
		if i > 0 {
			b.WriteString(", ")
		}
		if s, ok := arg.(string); ok {
			fmt.Fprintf(&b, "%q", s)
		} else {
			fmt.Fprintf(&b, "%v", arg)
		}
	}
	b.WriteByte(')')
	return b.String()
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.name == e.name
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *Error
	return errors.As(e, &ve)
}

// Name returns the revert name of err, or an empty string if err is not a revert.
func Name(err error) string {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.name
	}
	return ""
}
