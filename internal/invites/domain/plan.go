package domain

import "math"

type PlanID string

const (
	PlanBasic      PlanID = "basic"
	PlanPro        PlanID = "pro"
	PlanEnterprise PlanID = "enterprise"
)

func (p PlanID) Valid() bool {
	switch p {
	case PlanBasic, PlanPro, PlanEnterprise:
		return true
	default:
		return false
	}
}

func (p PlanID) String() string { return string(p) }

// Unbounded marks a limit with no ceiling. Any count is within it.
const Unbounded = math.MaxInt

type LimitKey string

const (
	LimitAgents      LimitKey = "agents"
	LimitHistoryDays LimitKey = "historyDays"
	LimitUsers       LimitKey = "users"
)

func (k LimitKey) Valid() bool {
	switch k {
	case LimitAgents, LimitHistoryDays, LimitUsers:
		return true
	default:
		return false
	}
}

type Limits struct {
	Agents      int
	HistoryDays int
	Users       int
}

// Get returns the ceiling for key and false for unknown keys.
func (l Limits) Get(key LimitKey) (int, bool) {
	switch key {
	case LimitAgents:
		return l.Agents, true
	case LimitHistoryDays:
		return l.HistoryDays, true
	case LimitUsers:
		return l.Users, true
	default:
		return 0, false
	}
}

type Plan struct {
	ID       PlanID
	Name     string
	Price    int
	Features []string
	Limits   Limits
}
