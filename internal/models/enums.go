package models

import (
	"fmt"
	"strings"
)

// Role описывает роль участника в проекте
type Role string

// Роли участников проекта
const (
	RoleMaintainer Role = "MAINTAINER"
	RoleReporter   Role = "REPORTER"
)

// Valid сообщает, является ли роль одной из известных
func (r Role) Valid() bool {
	return r == RoleMaintainer || r == RoleReporter
}

// Severity описывает серьезность бага
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Priority описывает приоритет бага
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"
)

// Status описывает состояние бага
type Status string

// Константы статусов бага
const (
	StatusOpen     Status = "OPEN"
	StatusAssigned Status = "ASSIGNED"
	StatusFixed    Status = "FIXED"
)

// ParseSeverity разбирает значение серьезности без учета регистра
func ParseSeverity(s string) (Severity, error) {
	switch v := Severity(strings.ToUpper(strings.TrimSpace(s))); v {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return v, nil
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// ParsePriority разбирает значение приоритета без учета регистра
func ParsePriority(s string) (Priority, error) {
	switch v := Priority(strings.ToUpper(strings.TrimSpace(s))); v {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4:
		return v, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// ParseStatus разбирает значение статуса без учета регистра
func ParseStatus(s string) (Status, error) {
	switch v := Status(strings.ToUpper(strings.TrimSpace(s))); v {
	case StatusOpen, StatusAssigned, StatusFixed:
		return v, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// NextAssignee вычисляет исполнителя бага после перевода в статус status пользователем actor.
// ASSIGNED всегда закрепляет баг за actor, FIXED закрепляет только если исполнителя не было.
func NextAssignee(current *string, actor string, status Status) *string {
	switch status {
	case StatusAssigned:
		return &actor
	case StatusFixed:
		if current == nil {
			return &actor
		}
	}
	return current
}

// AssignedElsewhere сообщает, закреплен ли баг за кем-то кроме userID
func (b *Bug) AssignedElsewhere(userID string) bool {
	return b.AssignedToUserID != nil && *b.AssignedToUserID != userID
}
