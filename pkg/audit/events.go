package audit

import (
	"fmt"
	"strconv"
)

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func severity(success bool) Severity {
	if success {
		return SeverityInfo
	}
	return SeverityWarning
}

// LoginEvent represents a login attempt
type LoginEvent struct {
	Username string
	ClientIP string
	Success  bool
	Reason   string
}

func (e LoginEvent) MessageID() string {
	return "login"
}

func (e LoginEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s logged in", e.Username)
	}
	msg := fmt.Sprintf("%s failed to log in", e.Username)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e LoginEvent) Severity() Severity {
	return severity(e.Success)
}

func (e LoginEvent) Facility() int {
	return FacilityAuthPriv
}

func (e LoginEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "login",
			"result":    result(e.Success),
		},
	}
}

// LogoutEvent represents an explicit logout
type LogoutEvent struct {
	Username string
	ClientIP string
}

func (e LogoutEvent) MessageID() string {
	return "logout"
}

func (e LogoutEvent) Message() string {
	return fmt.Sprintf("%s logged out", e.Username)
}

func (e LogoutEvent) Severity() Severity {
	return SeverityInfo
}

func (e LogoutEvent) Facility() int {
	return FacilityAuthPriv
}

func (e LogoutEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "logout",
			"result":    "success",
		},
	}
}

// DeleteEvent represents a signature deletion request.
// Username is empty when the caller was not authenticated.
type DeleteEvent struct {
	Username    string
	ClientIP    string
	SignatureID uint
	Success     bool
	Reason      string
}

func (e DeleteEvent) MessageID() string {
	return "delete"
}

func (e DeleteEvent) Message() string {
	user := e.Username
	if user == "" {
		user = "anonymous"
	}
	if e.Success {
		return fmt.Sprintf("%s deleted signature %d", user, e.SignatureID)
	}
	msg := fmt.Sprintf("%s tried to delete signature %d", user, e.SignatureID)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e DeleteEvent) Severity() Severity {
	return severity(e.Success)
}

func (e DeleteEvent) Facility() int {
	return FacilityAuthPriv
}

func (e DeleteEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDSubject: {
			"signature": strconv.FormatUint(uint64(e.SignatureID), 10),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "delete",
			"result":    result(e.Success),
		},
	}
}
