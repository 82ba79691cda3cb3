package model

// StatusError describes a technical failure to process a message.
type StatusError struct {
	Type    string `json:"type"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// StatusRejection describes a business rule that refused a command.
type StatusRejection struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Status is one of ok, error or rejection.
type Status struct {
	OK        *struct{}        `json:"ok,omitempty"`
	Error     *StatusError     `json:"error,omitempty"`
	Rejection *StatusRejection `json:"rejection,omitempty"`
}

// IsOK reports whether the status is ok.
func (s Status) IsOK() bool {
	return s.OK != nil
}

// Ack acknowledges a posted message.
type Ack struct {
	MessageID string `json:"messageId"`
	Status    Status `json:"status"`
}

// NewOKAck acknowledges messageID as accepted.
func NewOKAck(messageID string) Ack {
	return Ack{MessageID: messageID, Status: Status{OK: &struct{}{}}}
}

// NewErrorAck acknowledges messageID with an error status.
func NewErrorAck(messageID, errType string, code int, message string) Ack {
	return Ack{
		MessageID: messageID,
		Status:    Status{Error: &StatusError{Type: errType, Code: code, Message: message}},
	}
}

// NewRejectionAck acknowledges messageID as rejected.
func NewRejectionAck(messageID, rejectionType, message string) Ack {
	return Ack{
		MessageID: messageID,
		Status:    Status{Rejection: &StatusRejection{Type: rejectionType, Message: message}},
	}
}
