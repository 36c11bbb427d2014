// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package level

// Method names one of the four console verbs a message was emitted with.
// The zero value means the verb is unknown.
type Method string

const (
	MethodNone  Method = ""
	MethodLog   Method = "log"
	MethodInfo  Method = "info"
	MethodWarn  Method = "warn"
	MethodError Method = "error"
)

// Methods returns the four console verbs in severity order.
func Methods() []Method {
	return []Method{MethodLog, MethodInfo, MethodWarn, MethodError}
}

// Valid reports whether m is one of the four console verbs.
func (m Method) Valid() bool {
	switch m {
	case MethodLog, MethodInfo, MethodWarn, MethodError:
		return true
	default:
		return false
	}
}

// Level maps the verb to its implied level. Without a verb the level is ALWAYS.
func (m Method) Level() Level {
	switch m {
	case MethodLog:
		return DEBUG
	case MethodInfo:
		return INFO
	case MethodWarn:
		return WARNING
	case MethodError:
		return ERROR
	default:
		return ALWAYS
	}
}

// Stderr reports whether the verb writes to the error stream.
func (m Method) Stderr() bool {
	return m == MethodWarn || m == MethodError
}
